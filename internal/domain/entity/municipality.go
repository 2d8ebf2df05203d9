package entity

// Municipality es la partición administrativa que posee stock propio por material.
// El nombre es único; la resolución práctica es insensible a mayúsculas y acentos.
type Municipality struct {
	ID   int64
	Name string
}
