// Package debug provides assertion helpers reserved for violated internal
// invariants -- never for user-facing validation errors.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import "fmt"

// Assert panics when cond is false. Callers only reach for this to guard
// invariants that indicate a programming error, not caller misuse -- those
// go through the cmn error taxonomy instead.
func Assert(cond bool, a ...interface{}) {
	if !cond {
		panic(fmt.Sprint(a...))
	}
}

func Assertf(cond bool, f string, a ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(f, a...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
