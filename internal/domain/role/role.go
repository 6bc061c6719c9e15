// Package role define la jerarquía de roles y las reglas de gestión entre ellos.
//
// Toda decisión de autorización pasa por Rank/CanManage; ningún otro paquete
// compara nombres de rol directamente.
package role

import (
	"errors"
	"strings"
)

// Role nombre persistido de un rol.
type Role string

// Roles de menor a mayor privilegio.
const (
	Membro   Role = "membro"
	Admin    Role = "admin"
	SubLider Role = "sub-lider"
	Gerente  Role = "gerente"
	Dono     Role = "dono"
)

// ErrUnknownRole rol fuera de la tabla vigente.
var ErrUnknownRole = errors.New("rol desconocido")

// Hierarchy tabla de rangos versionada. Mayor rango = más privilegio.
type Hierarchy struct {
	Version int
	ranks   map[Role]int
	aliases map[string]Role
}

// Current tabla de cinco niveles en uso.
var Current = Hierarchy{
	Version: 2,
	ranks: map[Role]int{
		Membro:   1,
		Admin:    2,
		SubLider: 3,
		Gerente:  4,
		Dono:     5,
	},
	aliases: map[string]Role{
		"member":    Membro,
		"sub_lider": SubLider,
		"sublider":  SubLider,
	},
}

// Rank devuelve el rango del rol; 0 si no pertenece a la tabla.
func (h Hierarchy) Rank(r Role) int {
	return h.ranks[r]
}

// CanManage es true solo si actor tiene rango estrictamente mayor que target.
// Un rol desconocido como actor nunca gestiona nada.
func (h Hierarchy) CanManage(actor, target Role) bool {
	a := h.Rank(actor)
	return a > 0 && a > h.Rank(target)
}

// Parse normaliza mayúsculas, espacios y alias.
func (h Hierarchy) Parse(s string) (Role, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if r, ok := h.aliases[n]; ok {
		return r, nil
	}
	r := Role(n)
	if _, ok := h.ranks[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Roles lista los roles de la tabla ordenados de menor a mayor rango.
func (h Hierarchy) Roles() []Role {
	out := make([]Role, len(h.ranks))
	for r, rank := range h.ranks {
		out[rank-1] = r
	}
	return out
}

// Rank atajo sobre Current.
func Rank(r Role) int { return Current.Rank(r) }

// CanManage atajo sobre Current.
func CanManage(actor, target Role) bool { return Current.CanManage(actor, target) }

// Parse atajo sobre Current.
func Parse(s string) (Role, error) { return Current.Parse(s) }

// Valid indica si el rol pertenece a la tabla vigente.
func (r Role) Valid() bool { return Current.Rank(r) > 0 }

func (r Role) String() string { return string(r) }

// AtLeast true si r tiene al menos el rango de min.
func AtLeast(r, min Role) bool {
	return r.Valid() && Rank(r) >= Rank(min)
}

// Assignable roles que actor puede otorgar (estrictamente por debajo del suyo).
func Assignable(actor Role) []Role {
	var out []Role
	for _, r := range Current.Roles() {
		if CanManage(actor, r) {
			out = append(out, r)
		}
	}
	return out
}

// Políticas de capacidad.

// CanManageCatalog alta, edición y baja de ítems.
func CanManageCatalog(r Role) bool { return AtLeast(r, Admin) }

// CanViewFinancials agregados contables de toda la organización.
func CanViewFinancials(r Role) bool { return AtLeast(r, Admin) }

// CanViewAllSales listado de ventas de cualquier vendedor.
func CanViewAllSales(r Role) bool { return AtLeast(r, Admin) }
