package money_test

import (
	"testing"

	"github.com/amirasaad/fintrack/pkg/money"
)

// FuzzParse checks that Parse never panics and that accepted amounts
// survive a round trip through their string form.
func FuzzParse(f *testing.F) {
	f.Add("100")
	f.Add("-42.50")
	f.Add("0.001")
	f.Add("")
	f.Add("1e9")
	f.Add("NaN")
	f.Add("99999999999999999999999.99")

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Parse panicked: %v (input=%q)", r, input)
			}
		}()

		m, err := money.Parse(input)
		if err != nil {
			return
		}
		again, err := money.Parse(m.String())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", m.String(), err)
		}
		if !again.Equal(m) {
			t.Errorf("round trip changed value: %s != %s", again, m)
		}
		if !m.Add(m.Neg()).IsZero() {
			t.Errorf("m + (-m) != 0 for %s", m)
		}
	})
}
