package handlers

import (
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Tasks    *TaskHandler
	Auth     *AuthHandler
	Settings *SettingsHandler
	Photos   *PhotoHandler
}

// Routes регистрирует маршруты API на роутере
func (h Handlers) Routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register) // POST /auth/register
		r.Post("/login", h.Auth.Login)       // POST /auth/login
		r.Post("/logout", h.Auth.Logout)     // POST /auth/logout
		r.Get("/me", h.Auth.Me)              // GET /auth/me
		r.Patch("/me", h.Auth.UpdateProfile) // PATCH /auth/me
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.Tasks.ListTasks) // GET /tasks
		r.Post("/", h.Tasks.PostTask) // POST /tasks

		r.Get("/recent", h.Tasks.RecentTasks) // GET /tasks/recent
		r.Get("/due", h.Tasks.DueTasks)       // GET /tasks/due

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Tasks.GetTaskByID)       // GET /tasks/{id}
			r.Patch("/", h.Tasks.UpdateTaskByID)  // PATCH /tasks/{id}
			r.Delete("/", h.Tasks.DeleteTaskByID) // DELETE /tasks/{id}
			r.Post("/toggle", h.Tasks.ToggleTask) // POST /tasks/{id}/toggle
		})
	})

	r.Get("/stats", h.Tasks.Stats)           // GET /stats
	r.Get("/categories", h.Tasks.Categories) // GET /categories

	r.Get("/settings", h.Settings.GetSettings)      // GET /settings
	r.Patch("/settings", h.Settings.UpdateSettings) // PATCH /settings

	r.Route("/photos", func(r chi.Router) {
		r.Get("/", h.Photos.ListPhotos)           // GET /photos
		r.Post("/", h.Photos.AddPhoto)            // POST /photos
		r.Get("/{name}", h.Photos.GetPhoto)       // GET /photos/{name}
		r.Delete("/{name}", h.Photos.DeletePhoto) // DELETE /photos/{name}
	})

	r.Get("/health", h.Tasks.HealthCheck)
}
