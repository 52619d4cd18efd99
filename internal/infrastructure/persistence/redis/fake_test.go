package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis 通过Hook拦截命令,不建立网络连接
type fakeRedis struct {
	mu      sync.Mutex
	strings map[string]string
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFakeClient() (*redis.Client, *fakeRedis) {
	f := &fakeRedis{
		strings: map[string]string{},
		hashes:  map[string]map[string]string{},
		ttls:    map[string]time.Duration{},
	}
	client := redis.NewClient(&redis.Options{Addr: "fake:6379"})
	client.AddHook(f)
	return client, f
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("fake redis: dial disabled")
	}
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return f.apply(cmd)
	}
}

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			if err := f.apply(cmd); err != nil {
				return err
			}
		}
		return nil
	}
}

func (f *fakeRedis) apply(cmd redis.Cmder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failErr != nil {
		cmd.SetErr(f.failErr)
		return f.failErr
	}

	args := cmd.Args()
	arg := func(i int) string { return fmt.Sprint(args[i]) }

	switch strings.ToLower(cmd.Name()) {
	case "multi", "exec":
		return nil
	case "get":
		val, ok := f.strings[arg(1)]
		if !ok {
			cmd.SetErr(redis.Nil)
			return redis.Nil
		}
		cmd.(*redis.StringCmd).SetVal(val)
	case "set":
		key := arg(1)
		switch v := args[2].(type) {
		case []byte:
			f.strings[key] = string(v)
		default:
			f.strings[key] = fmt.Sprint(v)
		}
		if len(args) >= 5 && strings.EqualFold(arg(3), "ex") {
			f.ttls[key] = time.Duration(args[4].(int64)) * time.Second
		}
		cmd.(*redis.StatusCmd).SetVal("OK")
	case "exists":
		var n int64
		for i := 1; i < len(args); i++ {
			if _, ok := f.strings[arg(i)]; ok {
				n++
			} else if _, ok := f.hashes[arg(i)]; ok {
				n++
			}
		}
		cmd.(*redis.IntCmd).SetVal(n)
	case "del":
		var n int64
		for i := 1; i < len(args); i++ {
			if _, ok := f.strings[arg(i)]; ok {
				delete(f.strings, arg(i))
				n++
			}
			if _, ok := f.hashes[arg(i)]; ok {
				delete(f.hashes, arg(i))
				n++
			}
		}
		cmd.(*redis.IntCmd).SetVal(n)
	case "hset":
		key := arg(1)
		h, ok := f.hashes[key]
		if !ok {
			h = map[string]string{}
			f.hashes[key] = h
		}
		for i := 2; i+1 < len(args); i += 2 {
			h[arg(i)] = arg(i + 1)
		}
		cmd.(*redis.IntCmd).SetVal(int64((len(args) - 2) / 2))
	case "hgetall":
		out := map[string]string{}
		for k, v := range f.hashes[arg(1)] {
			out[k] = v
		}
		cmd.(*redis.MapStringStringCmd).SetVal(out)
	case "expire":
		f.ttls[arg(1)] = time.Duration(args[2].(int64)) * time.Second
		cmd.(*redis.BoolCmd).SetVal(true)
	default:
		err := fmt.Errorf("fake redis: unsupported command %s", cmd.Name())
		cmd.SetErr(err)
		return err
	}
	return nil
}
