package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"todo/internal/tasklist"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single task reference: the 1-based position of a
// task in the listed view.
func ParseTaskRef(arg string) (int, error) {
	if !isAllDigits(arg) {
		return 0, fmt.Errorf("invalid task reference: %s", arg)
	}
	num, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", arg)
	}
	return num, nil
}

// ParseTaskRefs parses one or more task references, rejecting duplicates.
func ParseTaskRefs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}

	seen := make(map[int]bool, len(args))
	nums := make([]int, 0, len(args))
	for _, arg := range args {
		num, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		if seen[num] {
			return nil, fmt.Errorf("duplicate task reference: %s", arg)
		}
		seen[num] = true
		nums = append(nums, num)
	}
	return nums, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// itemByNumber returns the task at a 1-based position in the controller's
// filtered view.
func itemByNumber(c *tasklist.Controller, num int) (tasklist.Item, error) {
	items := c.Filtered()
	if num < 1 || num > len(items) {
		return tasklist.Item{}, fmt.Errorf("task number out of range: %d", num)
	}
	return items[num-1], nil
}
