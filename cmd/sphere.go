package main

import (
	"fmt"
	"math/rand"
	"time"

	boa "github.com/amineHorseman/butterfly-optimization-algorithms"
	"github.com/amineHorseman/butterfly-optimization-algorithms/bench"
	"github.com/amineHorseman/butterfly-optimization-algorithms/butterfly"
)

const (
	npop    = 10
	maxgen  = 20
	ntrials = 100
)

func main() {
	fn := bench.Sphere{NDim: 2}
	obj := boa.SimpleObjectiver(fn.Eval)

	nsuccess := 0
	for trial := 0; trial < ntrials; trial++ {
		it := buildIter(fn, rand.New(rand.NewSource(time.Now().UnixNano()+int64(trial))))
		res, err := it.Run(obj)
		if err != nil {
			fmt.Printf("trial %v failed: %v\n", trial, err)
			continue
		}

		success := res.Best.Val < 1e-2
		if success {
			nsuccess++
		}
		fmt.Printf("trial %v: %v gens, %v evals (%v): best %v at %v\n",
			trial, res.Ngen, res.Neval, res.Reason, res.Best.Val, res.Best.Pos())
	}
	fmt.Printf("%v%% succeeded\n", float64(nsuccess)/float64(ntrials)*100)
}

func buildIter(fn bench.Func, rng *rand.Rand) *butterfly.Iterator {
	low, up := fn.Bounds()
	b, err := boa.NewBounds(low, up)
	if err != nil {
		panic(err.Error())
	}

	it, err := butterfly.New(nil, butterfly.BOA, b, npop, maxgen,
		butterfly.SwitchProb(0.6),
		butterfly.Rand(rng),
	)
	if err != nil {
		panic(err.Error())
	}
	return it
}
