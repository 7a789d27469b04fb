package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// demoSystem is a resettable stopwatch. Its three proof obligations exercise
// the three checkers: the counter being non-negative is inductive on its own,
// the counter never being -7 is not 1-inductive on its own but is proved
// together with the first, and the counter staying under 5 is falsified by
// BMC.
const demoSystem = `// A resettable stopwatch.
//
// Pressing start_stop toggles counting; pressing reset sets the counter
// back to zero. Try:
//
//   kinduct check --bmc demo.mks

svars {
  start_stop: bool,
  reset: bool,
  counting: bool,
  cnt: int,
}

init {
  cnt = 0 && (counting = start_stop)
}

trans {
  (counting' = ite(start_stop', ! counting, counting))
  && (cnt' = ite(reset', 0, ite(counting', cnt + 1, cnt)))
}

po "cnt is non-negative" {
  cnt >= 0
}

po "cnt is not -7" {
  ! (cnt = -7)
}

po "cnt is under 5" {
  cnt < 5
}
`

// writeDemo writes the demo system to the target path, overwriting it.
func (a *app) writeDemo(target string) error {
	fmt.Fprintf(a.out, "writing demo system to file `%s`\n", target)
	if err := os.WriteFile(target, []byte(demoSystem), 0o644); err != nil {
		return errors.Wrapf(err, "while writing demo system to file %q", target)
	}
	return nil
}
