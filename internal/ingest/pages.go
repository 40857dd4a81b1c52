package ingest

import "fmt"

// folio sides in reading order
var sides = []string{"a", "b"}

// GeneratePageRange returns the ordered page identifiers for the
// folios startFolio..endFolio inclusive, both sides of each folio:
// GeneratePageRange(2, 3) -> ["2a" "2b" "3a" "3b"].
func GeneratePageRange(startFolio, endFolio int) []string {
	if endFolio < startFolio {
		return nil
	}

	pages := make([]string, 0, 2*(endFolio-startFolio+1))
	for folio := startFolio; folio <= endFolio; folio++ {
		for _, side := range sides {
			pages = append(pages, fmt.Sprintf("%d%s", folio, side))
		}
	}
	return pages
}
