package segment

import "fmt"

// Policy selects how a topic's term list is carved into segments.
type Policy int

const (
	// OnePre pairs each term with every earlier-ranked term.
	OnePre Policy = iota
	// OneSuc pairs each term with every later-ranked term.
	OneSuc
	// OneOne produces every distinct unordered pair of terms.
	OneOne
	// OneSet pairs each term with the full set of remaining terms.
	OneSet
)

// String returns the config-file tag for the policy.
func (p Policy) String() string {
	switch p {
	case OnePre:
		return "one-pre"
	case OneSuc:
		return "one-suc"
	case OneOne:
		return "one-one"
	case OneSet:
		return "one-set"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts a config-file tag into a Policy.
func ParsePolicy(tag string) (Policy, error) {
	switch tag {
	case "one-pre":
		return OnePre, nil
	case "one-suc":
		return OneSuc, nil
	case "one-one":
		return OneOne, nil
	case "one-set":
		return OneSet, nil
	}
	return 0, fmt.Errorf("unknown segmentation policy %q", tag)
}

// Segment is one unit of confirmation scoring: how well the terms in
// Conditioned are supported by the terms in Condition.
type Segment struct {
	Conditioned []string // W'
	Condition   []string // W*
}

// Singleton reports whether both sides hold exactly one term.
func (s Segment) Singleton() bool {
	return len(s.Conditioned) == 1 && len(s.Condition) == 1
}

// Segments derives the segment sequence for one topic under the policy.
// Topics with fewer than 2 terms yield nil: such topics carry no pairwise
// evidence and are skipped during aggregation.
func Segments(topic []string, p Policy) []Segment {
	if len(topic) < 2 {
		return nil
	}

	var segs []Segment
	switch p {
	case OnePre:
		for i := 1; i < len(topic); i++ {
			for j := 0; j < i; j++ {
				segs = append(segs, Segment{
					Conditioned: []string{topic[i]},
					Condition:   []string{topic[j]},
				})
			}
		}
	case OneSuc:
		for i := 0; i < len(topic); i++ {
			for j := i + 1; j < len(topic); j++ {
				segs = append(segs, Segment{
					Conditioned: []string{topic[i]},
					Condition:   []string{topic[j]},
				})
			}
		}
	case OneOne:
		for i := 0; i < len(topic); i++ {
			for j := i + 1; j < len(topic); j++ {
				segs = append(segs, Segment{
					Conditioned: []string{topic[i]},
					Condition:   []string{topic[j]},
				})
			}
		}
	case OneSet:
		for i := 0; i < len(topic); i++ {
			rest := make([]string, 0, len(topic)-1)
			rest = append(rest, topic[:i]...)
			rest = append(rest, topic[i+1:]...)
			segs = append(segs, Segment{
				Conditioned: []string{topic[i]},
				Condition:   rest,
			})
		}
	}
	return segs
}
