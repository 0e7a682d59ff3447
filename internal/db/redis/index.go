package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/riverdub/riverdub/internal/db"
)

// PutIndexed runs HSET and ZADD inside one MULTI/EXEC.
func (s *Store) PutIndexed(
	ctx context.Context, key string, fields map[string]string, index string, score float64, member string,
) error {
	hset := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		hset = hset.FieldValue(k, v)
	}

	results := s.client.DoMulti(ctx,
		s.b().Multi().Build(),
		hset.Build(),
		s.b().Zadd().Key(index).ScoreMember().ScoreMember(score, member).Build(),
		s.b().Exec().Build(),
	)
	for _, res := range results[:len(results)-1] {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpTx, Err: err}
		}
	}

	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		return &db.Error{Op: db.OpTx, Err: err}
	}
	for i, reply := range replies {
		if err := reply.Error(); err != nil {
			return &db.Error{Op: db.OpTx, Err: fmt.Errorf("command %d: %w", i, err)}
		}
	}
	return nil
}

// Members returns the whole index, highest score first.
func (s *Store) Members(ctx context.Context, index string) ([]string, error) {
	members, err := s.do(ctx, s.b().Zrevrange().Key(index).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return []string{}, nil
		}
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	return members, nil
}
