package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/loomboard/feedrank/internal/db"
)

// TxWrite executes the write batch inside MULTI/EXEC on a dedicated
// connection: either every write commits or none do.
func (s *Store) TxWrite(ctx context.Context, writes []db.Write) error {
	if len(writes) == 0 {
		return nil
	}

	err := s.client.Dedicated(func(c rueidis.DedicatedClient) error {
		cmds := make(rueidis.Commands, 0, len(writes)+2)
		cmds = append(cmds, c.B().Multi().Build())
		for _, w := range writes {
			cmd, err := buildWrite(c, w)
			if err != nil {
				return err
			}
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, c.B().Exec().Build())

		for _, res := range c.DoMulti(ctx, cmds...) {
			if err := res.Error(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpMulti, Err: err}
	}
	return nil
}

func buildWrite(c rueidis.DedicatedClient, w db.Write) (rueidis.Completed, error) {
	switch {
	case w.HSet != nil:
		cmd := c.B().Hset().Key(w.HSet.Key).FieldValue()
		for k, v := range w.HSet.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		return cmd.Build(), nil
	case w.SAdd != nil:
		return c.B().Sadd().Key(w.SAdd.Key).Member(w.SAdd.Members...).Build(), nil
	case w.SRem != nil:
		return c.B().Srem().Key(w.SRem.Key).Member(w.SRem.Members...).Build(), nil
	case w.Del != "":
		return c.B().Del().Key(w.Del).Build(), nil
	default:
		return rueidis.Completed{}, fmt.Errorf("empty write")
	}
}
