package reports

import "strconv"

func itoa(n int) string { return strconv.Itoa(n) }

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
