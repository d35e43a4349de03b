package lookup

import "sort"

// NormalizeModules applies the module list fixups and sorts the result.
// Some modules share a lookup table under another name: the L-39C table
// also serves the L-39ZA, and the C-101 table is listed under both C-101CC
// and C-101EB.
func NormalizeModules(modules []string) []string {
	out := make([]string, 0, len(modules)+2)
	var extra []string
	for _, m := range modules {
		switch m {
		case "L-39C":
			out = append(out, m)
			extra = append(extra, "L-39ZA")
		case "C-101":
			out = append(out, "C-101CC")
			extra = append(extra, "C-101EB")
		default:
			out = append(out, m)
		}
	}
	out = append(out, extra...)
	sort.Strings(out)
	return out
}

func containsModule(modules []string, m string) bool {
	for _, x := range modules {
		if x == m {
			return true
		}
	}
	return false
}
