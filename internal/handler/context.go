package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	SubjectCtx      ContextKey = "subject"
	ClassGroupCtx   ContextKey = "classGroup"
	ScheduleCtx     ContextKey = "schedule"
	SubstitutionCtx ContextKey = "substitution"
)
