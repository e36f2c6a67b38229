
package versions

// Combination pairs a language with a version string.
type Combination struct {
	Lang    string `json:"lang"`
	Version string `json:"version"`
}

// FirstPerPrefix keeps the first version seen for each product prefix,
// preserving encounter order.
func FirstPerPrefix(versions []string) []string {
	seen := make(map[string]struct{}, len(versions))
	var out []string
	for _, v := range versions {
		p := Prefix(v)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Combinations pairs every language with the first version of each product
// prefix. Output is grouped by version, languages in input order:
//
//	[ja enterprise-server@3.14] [pt enterprise-server@3.14] ... [ja enterprise-cloud@latest] ...
//
// Testing one release per plan keeps the matrix small.
func Combinations(langs, versions []string) []Combination {
	var out []Combination
	for _, v := range FirstPerPrefix(versions) {
		for _, l := range langs {
			out = append(out, Combination{Lang: l, Version: v})
		}
	}
	return out
}
