package parallel

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkMap(b *testing.B) {
	tests := []struct {
		workers uint
		n       int
	}{
		{1, 1024},
		{4, 1024},
		{8, 1024},
		{8, 16},
	}
	for _, tt := range tests {
		b.Run(fmt.Sprintf("workers=%d/n=%d", tt.workers, tt.n), func(b *testing.B) {
			p, err := New(tt.workers, WithLogger(quietLogger()))
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()

			b.ResetTimer()
			for range b.N {
				res, err := Map(context.Background(), p, upTo(tt.n), plusTen)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := res.Collect(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkForEach(b *testing.B) {
	for _, workers := range []uint{1, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			p, err := New(workers, WithLogger(quietLogger()))
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()

			v := make([]int, 1024)
			b.ResetTimer()
			for range b.N {
				err := ForEach(context.Background(), p, pointers(v), func(_ context.Context, x *int) error {
					*x++
					return nil
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPoolLifecycle(b *testing.B) {
	for range b.N {
		p, err := New(4, WithLogger(quietLogger()))
		if err != nil {
			b.Fatal(err)
		}
		_ = p.Close()
	}
}
