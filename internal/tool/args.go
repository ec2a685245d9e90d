package tool

// Args is a validated argument set. Values are string for String and Enum
// fields and float64 for Number fields; absent optional fields without a
// default have no entry.
type Args map[string]any

// StringValue returns the string value of name, or "" when absent.
func (a Args) StringValue(name string) string {
	s, _ := a[name].(string)
	return s
}

// NumberValue returns the numeric value of name, or 0 when absent.
func (a Args) NumberValue(name string) float64 {
	n, _ := a[name].(float64)
	return n
}

// Has reports whether name is present.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
