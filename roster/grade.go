package roster

import (
	"fmt"
	"strconv"
	"strings"
)

// GradeName turns a grade code from the export into its display name.
// "0" and "k" are Kindergarten, "-1" and "pk" are Preschool, numbers become
// English ordinals ("3" -> "3rd Grade"). Unrecognized codes pass through.
func GradeName(grade string) string {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "0", "k":
		return "Kindergarten"
	case "-1", "pk":
		return "Preschool"
	}

	n, err := strconv.Atoi(strings.TrimSpace(grade))
	if err != nil {
		return grade
	}
	return ordinal(n) + " Grade"
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
