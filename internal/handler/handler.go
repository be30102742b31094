package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notificationCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notificationCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/subjects", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateSubject)
			r.Get("/", h.GetAllSubjects)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.subject)
				r.Get("/", h.GetSubject)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateSubject)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteSubject)
			})
		})

		r.Route("/classes", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateClassGroup)
			r.Get("/", h.GetAllClassGroups)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.classGroup)
				r.Get("/", h.GetClassGroup)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateClassGroup)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteClassGroup)
			})
		})

		r.Route("/timetables", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/slots", h.AddTimeSlot)
			r.Get("/slots", h.ListTimeSlots)
			r.Get("/effective", h.GetEffectiveTimetable)
			r.Route("/slots/{compositeID}", func(r chi.Router) {
				r.Get("/", h.GetTimeSlot)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/", h.UpdateTimeSlot)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.RemoveTimeSlot)
			})
			r.Get("/{id}", h.GetTimetable)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleFaculty})).Post("/", h.CreateSchedule)
			r.Get("/", h.ListSchedules)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/dashboard", h.GetAdminDashboard)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.schedule)
				r.Get("/", h.GetSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteSchedule)
				r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleFaculty})).Post("/substitute", h.RequestScheduleSubstitution)
			})
		})

		r.Route("/substitutions", func(r chi.Router) {
			r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleFaculty})).Post("/", h.RequestSubstitution)
			r.Get("/", h.ListSubstitutions)
			r.With(h.myInfo).Get("/my", h.GetMySubstitutions)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.substitution)
				r.Get("/", h.GetSubstitution)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/status", h.DecideSubstitution)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/complete", h.CompleteSubstitution)
				r.With(h.myInfo).Delete("/", h.DeleteSubstitution)
			})
		})

		r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleFaculty})).Get("/faculty-dashboard", h.GetFacultyDashboard)
	})
}
