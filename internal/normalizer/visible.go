package normalizer

import "strings"

// ParseVisible reads the catalog's active flag. The export writes it a
// few different ways (0/1, true/false, sim/nao); anything unrecognized
// counts as visible so a damaged cell never hides a product.
func ParseVisible(s string) bool {
	switch strings.TrimSpace(foldName(s)) {
	case "0", "false", "f", "n", "nao", "inativo":
		return false
	}

	return true
}
