// mapcheck imports a mapgen document and reports every authoring character
// that resolves to nothing, which usually means a missing palette or an
// unsatisfied parameter.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/logger"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/mapgen"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/palette"
	"github.com/Karto1000/CDDA-Map-Editor-sub000/internal/random"
)

func main() {
	paletteDir := flag.String("palettes", "", "Directory of palette JSON files")
	mapgenFile := flag.String("mapgen", "", "Path to the mapgen JSON file to check")
	omTerrain := flag.String("om-terrain", "", "Overmap terrain id to select from the file")
	seed := flag.Int64("seed", 1, "Resolution seed")
	flag.Parse()

	if *paletteDir == "" || *mapgenFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	logConfig, _ := logger.LoadConfig("")
	logger.Initialize(logConfig)

	palettes, err := palette.LoadDirectory(*paletteDir)
	if err != nil {
		fmt.Println("Error loading palettes:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d palettes\n", len(palettes))

	resolver := mapgen.NewResolver(palettes, random.New(*seed))
	m, err := resolver.LoadFile(*mapgenFile, *omTerrain)
	if err != nil {
		fmt.Println("Error loading mapgen:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s (%s, %dx%d, %d cells)\n",
		m.Name(), m.Kind, m.Width, m.Height, len(m.Cells))

	// Resolve each distinct character once; they all resolve the same way.
	seen := make(map[string]bool)
	for _, cell := range m.Cells {
		seen[cell.Character] = true
	}

	var characters []string
	for ch := range seen {
		characters = append(characters, ch)
	}
	sort.Strings(characters)

	unmapped := 0
	for _, ch := range characters {
		if ch == mapgen.EmptyCharacter {
			continue
		}
		group := resolver.ResolveCharacter(m, ch)
		switch {
		case group.Terrain != nil:
			fmt.Printf("  %q -> terrain %s%s\n", ch, *group.Terrain, extras(group))
		case group.Furniture != nil || len(group.Items) > 0 || group.Toilet != nil:
			fmt.Printf("  %q -> (no terrain)%s\n", ch, extras(group))
		default:
			fmt.Printf("  %q -> UNMAPPED\n", ch)
			unmapped++
		}
	}

	if unmapped > 0 {
		fmt.Printf("%d character(s) resolve to nothing\n", unmapped)
		os.Exit(1)
	}
	fmt.Println("All characters resolve")
}

func extras(group mapgen.IDGroup) string {
	out := ""
	if group.Furniture != nil {
		out += fmt.Sprintf(", furniture %s", *group.Furniture)
	}
	if group.Toilet != nil {
		out += fmt.Sprintf(", toilet %s", *group.Toilet)
	}
	if n := len(group.Items); n > 0 {
		out += fmt.Sprintf(", %d item spawn(s)", n)
	}
	return out
}
