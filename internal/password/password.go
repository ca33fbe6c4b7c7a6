package password

import "golang.org/x/crypto/bcrypt"

type Hasher interface {
	Hash(password []byte) ([]byte, error)
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(pw []byte) ([]byte, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword(pw, cost)
}
