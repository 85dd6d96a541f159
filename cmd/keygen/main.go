package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"rsalpha/internal/keys"
)

func main() {
	params := keys.DefaultParams()

	switch len(os.Args) {
	case 1:
	case 4:
		var vals [3]int64
		for i, arg := range os.Args[1:] {
			v, err := strconv.ParseInt(arg, 10, 64)
			if err != nil || v <= 0 {
				fmt.Println("Parameters must be positive whole numbers.")
				os.Exit(1)
			}
			vals[i] = v
		}
		params = keys.Params{P: vals[0], Q: vals[1], E: vals[2]}
	default:
		fmt.Println("Usage: keygen [<p> <q> <e>]")
		os.Exit(1)
	}

	pair, err := keys.Generate(params)
	if err != nil {
		var cerr *keys.ConfigurationError
		if errors.As(err, &cerr) {
			fmt.Println("Invalid parameters:")
		} else {
			fmt.Println("Keygen error:")
		}
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("public  %s\n", pair.Public)
	fmt.Printf("private %s\n", pair.Private)
	fmt.Printf("totient %d\n", pair.Totient)
}
