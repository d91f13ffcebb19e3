package prompt

import "fmt"

func Example_stem() {
	st := newStem("v", nil)
	fmt.Println(st.Next(), st.Next(), st.Next())

	st = newStem("v", map[string]struct{}{"v2": {}})
	fmt.Println(st.Next(), st.Next(), st.Next())

	// Output:
	// v1 v2 v3
	// v1 v3 v4
}
