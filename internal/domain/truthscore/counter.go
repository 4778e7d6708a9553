package truthscore

import "sort"

// flagCounter counts red-flag occurrences preserving first-seen order so
// ties in MostCommon resolve deterministically.
type flagCounter struct {
	order  []string
	counts map[string]int
}

func newFlagCounter() *flagCounter {
	return &flagCounter{counts: make(map[string]int)}
}

func (c *flagCounter) Add(flag string) {
	if _, ok := c.counts[flag]; !ok {
		c.order = append(c.order, flag)
	}
	c.counts[flag]++
}

// FlagCount pairs a flag with its occurrence count.
type FlagCount struct {
	Flag  string
	Count int
}

// MostCommon returns up to n flags ordered by descending count, ties in
// first-seen order.
func (c *flagCounter) MostCommon(n int) []FlagCount {
	out := make([]FlagCount, 0, len(c.order))
	for _, f := range c.order {
		out = append(out, FlagCount{Flag: f, Count: c.counts[f]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
