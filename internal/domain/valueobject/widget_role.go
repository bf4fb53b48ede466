package valueobject

// WidgetRole различает закреплённый блок профиля и обычные блоки.
// Защита identity от удаления и перемещения проверяется по роли, а не по строке id.
type WidgetRole struct {
	pinned bool
	kind   WidgetKind
}

// IdentityRole - единственный закреплённый блок портфолио.
func IdentityRole() WidgetRole {
	return WidgetRole{pinned: true, kind: WidgetKindIdentity}
}

// Removable - блок, который можно удалять и перемещать.
func Removable(kind WidgetKind) WidgetRole {
	return WidgetRole{kind: kind}
}

// RoleFor выводит роль из типа блока.
func RoleFor(kind WidgetKind) WidgetRole {
	if kind == WidgetKindIdentity {
		return IdentityRole()
	}
	return Removable(kind)
}

func (r WidgetRole) IsPinned() bool {
	return r.pinned
}

func (r WidgetRole) Kind() WidgetKind {
	return r.kind
}
