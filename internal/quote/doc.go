// Package quote selects short affirmations shown on the attendance panel.
//
// Each transition category (in, lunch, resume, out, reset) has a fixed,
// non-empty pool. Selection is uniform by default and can be replaced with a
// deterministic ChooseFunc in tests.
package quote
