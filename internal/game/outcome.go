package game

import "math/rand"

// Outcome is one side of the dreidel.
type Outcome string

const (
	Nun   Outcome = "Nun"
	Gimel Outcome = "Gimel"
	Hey   Outcome = "Hey"
	Shin  Outcome = "Shin"
)

// Sides lists the four outcomes in canonical order.
var Sides = [4]Outcome{Nun, Gimel, Hey, Shin}

// Draw picks a side uniformly at random.
func Draw(rng *rand.Rand) Outcome {
	return Sides[rng.Intn(len(Sides))]
}

// ParseOutcome maps a wire string back to an Outcome.
func ParseOutcome(raw string) (Outcome, bool) {
	for _, side := range Sides {
		if string(side) == raw {
			return side, true
		}
	}
	return "", false
}
