package benchmarks

import (
	"fmt"
	"testing"

	"github.com/randalmurphal/picocompat/pkg/picocompat/page"
	"github.com/randalmurphal/picocompat/pkg/picocompat/template"
)

var rules = page.KeyRules{BaseURL: "http://example.com/"}

func pageList(n int, dupEvery int) []*page.Page {
	pages := make([]*page.Page, 0, n)
	for i := 0; i < n; i++ {
		slug := fmt.Sprintf("page-%d", i)
		if dupEvery > 0 && i%dupEvery == 0 {
			slug = "dup"
		}
		pages = append(pages, page.New(rules.BaseURL+"?"+slug))
	}
	return pages
}

// BenchmarkRebuild_1000 keys 1000 distinct pages.
func BenchmarkRebuild_1000(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		pages := pageList(1000, 0)
		b.StartTimer()
		_, _, _ = page.Rebuild(pages, rules)
	}
}

// BenchmarkRebuild_Duplicates keys 1000 pages where every tenth collides.
func BenchmarkRebuild_Duplicates(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		pages := pageList(1000, 10)
		b.StartTimer()
		_, _, _ = page.Rebuild(pages, rules)
	}
}

// BenchmarkReindex_Noop measures a round trip with no legacy handler.
func BenchmarkReindex_Noop(b *testing.B) {
	c, _, _ := page.Rebuild(pageList(1000, 0), rules)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = page.Reindex(c, rules, nil)
	}
}

// BenchmarkTemplateRoundTrip measures the extension round trip.
func BenchmarkTemplateRoundTrip(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = template.RoundTrip("theme/index.twig", func(*string) error { return nil })
	}
}
