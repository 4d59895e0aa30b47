package ui

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestSpark(t *testing.T) {
	g := NewWithT(t)

	got := Spark([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	g.Expect(got).To(ContainSubstring("▁"))
	g.Expect(got).To(ContainSubstring("█"))

	n := 0
	for _, r := range got {
		if strings.ContainsRune(string(sparkChars), r) {
			n++
		}
	}
	g.Expect(n).To(Equal(8))
}

func TestSparkEmpty(t *testing.T) {
	NewWithT(t).Expect(Spark(nil, 4)).To(Equal("────"))
}

func TestStatus(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Status(true, false)).To(ContainSubstring("found"))
	g.Expect(Status(false, true)).To(ContainSubstring("held"))
	g.Expect(Status(false, false)).To(ContainSubstring("missing"))
}

func TestRatioClamps(t *testing.T) {
	g := NewWithT(t)

	g.Expect(strings.Count(Ratio(2, 5), "█")).To(Equal(5))
	g.Expect(strings.Count(Ratio(-1, 5), "░")).To(Equal(5))
}

func TestSeparatorWidth(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Separator(20)).To(ContainSubstring("◆"))
	g.Expect(strings.Count(Separator(20), "─")).To(Equal(14))
}
