package generator

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

var avatarPalette = []string{
	"#e84c3d", "#3598db", "#27ae61", "#f39c11",
	"#9b58b5", "#16a086", "#e77e23", "#34495e",
}

// Avatar renders a small symmetric identicon SVG for an identity. It is a
// pure function of the id: the same identity always gets the same avatar, in
// any store, in any process.
func Avatar(id int) string {
	h := fnv.New64a()
	h.Write([]byte(strconv.Itoa(id)))
	sum := h.Sum64()

	fg := avatarPalette[sum%uint64(len(avatarPalette))]
	bg := avatarPalette[(sum>>3)%uint64(len(avatarPalette))]
	if fg == bg {
		bg = "#ecf0f1"
	}

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 80 80">`)
	fmt.Fprintf(&b, `<rect width="80" height="80" fill="%s"/>`, bg)
	// 5x5 grid, mirrored around the middle column; one hash bit per cell.
	bits := sum >> 8
	for col := 0; col < 3; col++ {
		for row := 0; row < 5; row++ {
			if bits&1 == 1 {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="16" height="16" fill="%s"/>`, col*16, row*16, fg)
				if col < 2 {
					fmt.Fprintf(&b, `<rect x="%d" y="%d" width="16" height="16" fill="%s"/>`, (4-col)*16, row*16, fg)
				}
			}
			bits >>= 1
		}
	}
	b.WriteString(`</svg>`)
	return b.String()
}
