package domain

// KeyPrefix namespaces every storage key. Overridden once at startup from
// config (storage.key_prefix); repositories read it when building keys.
var KeyPrefix = "feedrank:"
