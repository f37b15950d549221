package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost es el factor de trabajo vigente (~100ms por verificación en hardware de
// referencia). Subirlo solo junto con un camino de re-hash en login: los digests bcrypt
// llevan su propio costo, así que los viejos siguen verificando.
const PasswordCost = 12

// PasswordHasher produce y verifica digests de contraseñas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify no distingue entre contraseña incorrecta y digest malformado.
	Verify(password, digest string) bool
	VerifyDummy(password string)
	NeedsRehash(digest string) bool
}

// BcryptHasher implementa PasswordHasher con bcrypt y sal aleatoria por digest.
type BcryptHasher struct {
	cost  int
	dummy []byte
}

// NewBcryptHasher crea un hasher con el costo indicado. El digest ficticio se usa para
// igualar el tiempo de respuesta cuando el usuario no existe.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, bcrypt.InvalidCostError(cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("identity-svc:dummy"), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptHasher{cost: cost, dummy: dummy}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// VerifyDummy consume el mismo tiempo que una verificación real y siempre falla.
func (h *BcryptHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

// NeedsRehash reporta digests generados con un costo menor al actual.
func (h *BcryptHasher) NeedsRehash(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return false
	}
	return cost < h.cost
}
