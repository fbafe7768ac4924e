package access

import "github.com/trezcool/shule/core/user"

// Action names a boundary operation submitted to the policy.
type Action string

const (
	ActionRegister Action = "register"
	ActionLogin    Action = "login"
	ActionViewHome Action = "view_home"

	ActionViewStudents  Action = "view_students"
	ActionViewCourses   Action = "view_courses"
	ActionCreateStudent Action = "create_student"
	ActionEditStudent   Action = "edit_own_student"
	ActionDeleteStudent Action = "delete_student"
	ActionCreateCourse  Action = "create_course"
	ActionDeleteCourse  Action = "delete_course"
	ActionAssignTeacher Action = "assign_teacher"
	ActionEnroll        Action = "toggle_enrollment"
)

// Principal is the acting identity as supplied by the boundary layer.
type Principal struct {
	Role          user.Role
	Authenticated bool
}

// Anonymous is the principal of unauthenticated callers.
var Anonymous = Principal{}

var (
	// public actions require no principal at all
	public = map[Action]bool{
		ActionRegister: true,
		ActionLogin:    true,
		ActionViewHome: true,
	}

	// rules maps each known action to the roles allowed to perform it; a
	// nil entry means any authenticated principal.
	rules = map[Action][]user.Role{
		ActionViewStudents:  nil,
		ActionViewCourses:   nil,
		ActionCreateStudent: {user.RoleTeacher},
		ActionDeleteStudent: {user.RoleTeacher},
		ActionCreateCourse:  {user.RoleTeacher},
		ActionDeleteCourse:  {user.RoleTeacher},
		ActionAssignTeacher: {user.RoleTeacher},
		ActionEditStudent:   {user.RoleStudent},
		ActionEnroll:        {user.RoleStudent},
	}
)

// Allowed reports whether the principal may perform the action. Actions not
// in the table are denied: the policy fails closed and never errors.
func Allowed(action Action, p Principal) bool {
	if public[action] {
		return true
	}
	if !p.Authenticated {
		return false
	}
	roles, known := rules[action]
	if !known {
		return false
	}
	if roles == nil {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
