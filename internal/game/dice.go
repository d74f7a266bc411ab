package game

import (
	"crypto/rand"
	"encoding/binary"
)

// RollAbilities rolls a fresh ability spread: 2d6 per ability, vitality
// a bit higher.
func RollAbilities() Abilities {
	return Abilities{
		Vitality:   roll2d6() + 6,
		Mana:       roll2d6(),
		Intellect:  roll2d6(),
		Agility:    roll2d6(),
		Resilience: roll2d6(),
		Charm:      roll2d6(),
	}
}

func roll2d6() int {
	return d6() + d6()
}

// crypto-rand small helper; plenty for dice
func d6() int {
	var b [8]byte
	_, _ = rand.Read(b[:])
	n := binary.LittleEndian.Uint64(b[:])
	return int(n%6) + 1
}
