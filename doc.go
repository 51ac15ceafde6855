// Package pipelang parses, desugars and runs a small expression language
// built around the pipeline operator |>.

// To install pipelang:
// 	go get -u github.com/pipelang/pipelang

// How to use:
//
// Desugaring:
// import (
//
//	"fmt"
//
//	"github.com/pipelang/pipelang"
//
// )
//
//	func main() {
//		out, err := pipelang.DesugarString(`"hello" |> doubleSay |> capitalize |> exclaim;`)
//		if err != nil {
//			// ...
//		}
//
//		fmt.Print(out)
//		// exclaim(capitalize(doubleSay("hello")));
//	}
//
// Running:
// import (
//
//	"context"
//	"os"
//
//	"github.com/pipelang/pipelang"
//
// )
//
//	func main() {
//		ctx := context.Background()
//		env := pipelang.Prelude(os.Stdout)
//
//		v, err := pipelang.Run(ctx, `let shout = s => upper(s) + "!"; "hey" |> shout;`, env)
//		if err != nil {
//			// ...
//		}
//
//		// v is "HEY!"
//		_ = v
//	}
package pipelang
