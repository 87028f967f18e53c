package vectorscan_test

import (
	"fmt"

	"github.com/mtremer/vectorscan"
	"github.com/mtremer/vectorscan/charclass"
)

func Example() {
	acc := vectorscan.MustCompile(`[aeiou]`)

	buf := []byte("xyzfoo123")
	fmt.Println(acc.Find(buf))
	fmt.Println(acc.RFind(buf))
	// Output:
	// 4
	// 5
}

func ExampleAccelerator_FindNot() {
	acc := vectorscan.MustCompile(`\s`)

	line := []byte("   indented text  ")
	fmt.Println("first non-space:", acc.FindNot(line))
	fmt.Println("last non-space:", acc.RFindNot(line))
	// Output:
	// first non-space: 3
	// last non-space: 15
}

func ExampleNewWithConfig() {
	config := vectorscan.DefaultConfig()
	config.Width = vectorscan.WidthScalable
	config.ScalableBytes = 64

	acc, err := vectorscan.NewWithConfig(charclass.Digit, config)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(acc.Width(), acc.Find([]byte("order #1234")))
	// Output:
	// scalable 7
}

func ExampleAccelerator_Count() {
	acc := vectorscan.MustCompile(`[,;]`)
	fmt.Println(acc.Count([]byte("a,b;c,d")))
	// Output:
	// 3
}
