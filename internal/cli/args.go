package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeArgs rewrites the two-value form "--figsize W H" into
// "--figsize=W,H" so the flag parser sees a single value. Arguments
// after "--" are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if arg == "--figsize" && i+2 < len(args) && isInt(args[i+1]) && isInt(args[i+2]) {
			out = append(out, "--figsize="+args[i+1]+","+args[i+2])
			i += 2
			continue
		}
		out = append(out, arg)
	}
	return out
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// figSizeValue is a "W,H" flag value. Each occurrence replaces the previous
// pair, so the last --figsize on the command line wins.
type figSizeValue []int

func newFigSizeValue(width, height int, p *[]int) *figSizeValue {
	*p = []int{width, height}
	return (*figSizeValue)(p)
}

func (v *figSizeValue) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("needs exactly two values (width height), got %d", len(parts))
	}

	size := make([]int, 2)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("%q is not an integer", part)
		}
		size[i] = n
	}
	*v = size
	return nil
}

func (v *figSizeValue) String() string {
	if len(*v) != 2 {
		return ""
	}
	return fmt.Sprintf("%d,%d", (*v)[0], (*v)[1])
}

func (v *figSizeValue) Type() string {
	return "W,H"
}
