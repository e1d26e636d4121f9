package detector

import (
	"fmt"
	"sort"
)

type profileScore struct {
	profile  Profile
	sum      int
	total    int
	evidence []string
	// matched is true when at least one pattern other than an Absent file check matched.
	matched bool
}

// rank scores every profile against proj and returns the ones clearing their threshold,
// best first. Ties keep catalogue order.
//
// Exclusion is name based: a profile is dropped when any profile it excludes matched at least
// one pattern, even if that competitor scored lower or stayed under its own threshold.
func rank(profiles []Profile, proj *project) []Score {
	scored := make([]profileScore, len(profiles))
	matched := make(map[string]bool, len(profiles))

	for i, p := range profiles {
		ps := profileScore{profile: p, evidence: []string{}}
		for _, pat := range p.Patterns {
			w := pat.weight()
			ps.total += w
			if !proj.matches(pat) {
				continue
			}
			ps.sum += w
			ps.evidence = append(ps.evidence, pat.evidence())
			if pat.positive() {
				ps.matched = true
			}
		}
		if ps.matched {
			matched[p.Name] = true
		}
		scored[i] = ps
	}

	out := make([]Score, 0, len(scored))
	for _, ps := range scored {
		if ps.total <= 0 || ps.sum <= 0 {
			continue
		}
		score := float64(ps.sum) / float64(ps.total)
		if score < ps.profile.Threshold {
			continue
		}
		if name, ok := excludedBy(ps.profile, matched); ok {
			proj.log.WithField("profile", ps.profile.Name).Debugf("suppressed by %s", name)
			continue
		}
		out = append(out, Score{Value: ps.profile.Name, Score: score, Evidence: ps.evidence})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func excludedBy(p Profile, matched map[string]bool) (string, bool) {
	for _, name := range p.Excludes {
		if name != p.Name && matched[name] {
			return name, true
		}
	}
	return "", false
}

func result(category Category, scores []Score) DetectionResult {
	if len(scores) == 0 {
		return DetectionResult{
			Value:      Unknown,
			Confidence: 0,
			Evidence:   []string{fmt.Sprintf("No %s patterns matched", category)},
		}
	}

	best := scores[0]
	res := DetectionResult{
		Value:      best.Value,
		Confidence: best.Score,
		Evidence:   append([]string(nil), best.Evidence...),
	}
	for _, s := range scores[1:] {
		res.Alternatives = append(res.Alternatives, Alternative{Value: s.Value, Confidence: s.Score})
	}
	return res
}

func cloneScores(in []Score) []Score {
	out := make([]Score, len(in))
	for i, s := range in {
		out[i] = Score{Value: s.Value, Score: s.Score, Evidence: append([]string(nil), s.Evidence...)}
	}
	return out
}
