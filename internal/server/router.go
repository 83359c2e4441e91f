package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newRouter(h *Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.ListBooks)
			r.Post("/", h.CreateBook)
			r.Post("/reorder", h.ReorderBooks)

			r.Route("/{bookID}", func(r chi.Router) {
				r.Get("/", h.GetBookView)
				r.Patch("/", h.UpdateBook)
				r.Delete("/", h.DeleteBook)

				r.Post("/publish", h.PublishBook)
				r.Delete("/publish", h.UnpublishBook)
				r.Get("/published", h.GetPublishedBook)
				r.Get("/versions", h.ListPublishedVersions)

				r.Get("/notes", h.ListNotes)
				r.Post("/notes", h.CreateNote)

				r.Route("/parts", func(r chi.Router) {
					r.Get("/", h.ListParts)
					r.Post("/", h.CreatePart)
					r.Post("/reorder", h.ReorderParts)

					r.Route("/{partID}", func(r chi.Router) {
						r.Get("/", h.GetPartView)
						r.Patch("/", h.UpdatePart)
						r.Delete("/", h.DeletePart)

						r.Get("/notes", h.ListNotes)
						r.Post("/notes", h.CreateNote)

						r.Route("/chapters", func(r chi.Router) {
							r.Get("/", h.ListChapters)
							r.Post("/", h.CreateChapter)
							r.Post("/reorder", h.ReorderChapters)

							r.Route("/{chapterID}", func(r chi.Router) {
								r.Get("/", h.GetChapterView)
								r.Patch("/", h.UpdateChapter)
								r.Delete("/", h.DeleteChapter)

								r.Post("/move", h.MoveChapter)
								r.Post("/stage-move", h.StageChapterMove)
								r.Post("/confirm-removal", h.ConfirmChapterRemoval)

								r.Get("/notes", h.ListNotes)
								r.Post("/notes", h.CreateNote)

								r.Route("/sections", func(r chi.Router) {
									r.Get("/", h.ListSections)
									r.Post("/", h.CreateSection)
									r.Post("/reorder", h.ReorderSections)

									r.Route("/{sectionID}", func(r chi.Router) {
										r.Get("/", h.GetSectionView)
										r.Patch("/", h.UpdateSection)
										r.Delete("/", h.DeleteSection)

										r.Post("/move", h.MoveSection)

										r.Get("/notes", h.ListNotes)
										r.Post("/notes", h.CreateNote)

										r.Route("/blocks", func(r chi.Router) {
											r.Get("/", h.ListBlocks)
											r.Post("/", h.CreateBlock)
											r.Post("/reorder", h.ReorderBlocks)

											r.Route("/{blockID}", func(r chi.Router) {
												r.Patch("/", h.UpdateBlock)
												r.Delete("/", h.DeleteBlock)
												r.Post("/move", h.MoveBlock)
											})
										})
									})
								})
							})
						})
					})
				})
			})
		})
	})

	router.Route("/v1/notes/{noteID}", func(r chi.Router) {
		r.Get("/", h.GetNote)
		r.Patch("/", h.UpdateNote)
		r.Delete("/", h.DeleteNote)
		r.Post("/archive", h.ArchiveNote)
	})

	return router
}
