// Command random-numbers is a modular input that streams one random number
// per configured stanza on every invocation.
//
// Install it as bin/random_numbers in an app and add a stanza such as:
//
//	[random_numbers://lottery]
//	min = 0
//	max = 49
package main

import (
	"github.com/artpar/modinput/adapters/clock"
	"github.com/artpar/modinput/adapters/random"
	"github.com/artpar/modinput/bootstrap"
)

func main() {
	bootstrap.Execute("random_numbers", &RandomNumbers{
		Clock:  clock.Real{},
		Random: random.Real{},
	})
}
