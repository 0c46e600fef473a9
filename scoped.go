package syncprim

// ScopedUpgrade is a short-lived handle over an upgradeable hold: it
// performs UpgradeToUnique when constructed and UniqueToUpgrade when
// closed, guaranteeing the downgrade runs on every exit path (including
// panics) when used with defer, the way spec §9's re-architecture
// guidance asks a destructor-driven RAII guard to be replaced in
// languages without destructors.
//
// Its lifetime must be strictly nested inside the lifetime of the
// upgradeable hold it wraps; violating that is a usage error with
// undefined behavior, per spec §4.G — no runtime check is performed.
type ScopedUpgrade struct {
	_ noCopy
	m *Mutex
}

// NewScopedUpgrade upgrades m's current upgradeable hold to exclusive and
// returns a handle that downgrades it back on Close.
func NewScopedUpgrade(m *Mutex) *ScopedUpgrade {
	m.UpgradeToUnique()
	return &ScopedUpgrade{m: m}
}

// Close downgrades the exclusive hold back to upgradeable. Callers
// typically write:
//
//	su := syncprim.NewScopedUpgrade(m)
//	defer su.Close()
func (s *ScopedUpgrade) Close() {
	s.m.UniqueToUpgrade()
}
