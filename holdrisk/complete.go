package main

import (
	"github.com/etnz/exposure/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
func completion() *complete.Command {
	output := map[string]complete.Predictor{
		"pretty":       predict.Nothing,
		"markdown":     predict.Nothing,
		"metrics-file": predict.Files("*.prom"),
	}
	with := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		for k, v := range output {
			flags[k] = v
		}
		return flags
	}
	etf := &complete.Command{
		Flags: with(map[string]complete.Predictor{
			"f":         predict.Files("*"),
			"json-path": predict.Something,
			"no-mail":   predict.Nothing,
		}),
	}
	portfolio := &complete.Command{
		Flags: with(map[string]complete.Predictor{
			"dir":   predict.Dirs("*"),
			"o":     predict.Files("*.csv"),
			"chart": predict.Files("*.png"),
			"mail":  predict.Nothing,
		}),
	}
	topics, _ := docs.Topics()
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"etf":       etf,
			"portfolio": portfolio,
			"columns": {
				Flags: map[string]complete.Predictor{"json-path": predict.Something},
				Args:  predict.Files("*"),
			},
			"schedule": {
				Flags: map[string]complete.Predictor{"spec": predict.Something, "now": predict.Nothing},
				Sub:   map[string]*complete.Command{"etf": etf, "portfolio": portfolio},
			},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set(append(topics, "*")),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
