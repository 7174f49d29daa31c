package parser

import (
	"context"
	"testing"
)

func BenchmarkParse_Basic(b *testing.B) {
	p := New(nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		infos, err := p.Parse(context.Background(), moduleRoot, "./testdata/parserbasic")
		if err != nil {
			b.Fatal(err)
		}
		if len(infos) == 0 {
			b.Fatal("empty parse result")
		}
	}
}
