package book

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pagebound/bookclub/internal/platform/request"
	"github.com/pagebound/bookclub/internal/platform/respond"
	"github.com/pagebound/bookclub/internal/platform/validate"
	"github.com/pagebound/bookclub/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Fixed paths are registered before the wildcard so "top-rated" never
	// resolves as a slug.
	router.Get("/", handler.listBooks)
	router.Get("/top-rated", handler.topRated)
	router.Get("/by-genre/{genreID}", handler.byGenre)
	router.Get("/{idOrSlug}", handler.getBook)
	router.Post("/", handler.createBook)
	router.Put("/{id}", handler.updateBook)
	router.Delete("/{id}", handler.deleteBook)

	return router
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}
	if rawGenre := request.URL.Query().Get("genre"); rawGenre != "" {
		genreID, err := strconv.Atoi(rawGenre)
		if err != nil || genreID <= 0 {
			respond.Error(writer, request, validate.ErrInvalidID)
			return
		}
		filter.GenreID = genreID
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, request.URL.Query().Get("sort"), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) topRated(writer http.ResponseWriter, request *http.Request) {
	count := requestutil.QueryInt(request, "count", DefaultTopRatedCount)

	books, err := handler.service.TopRated(request.Context(), count)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, books)
}

func (handler *Handler) byGenre(writer http.ResponseWriter, request *http.Request) {
	genreID, err := requestutil.IntID(request, "genreID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	books, total, err := handler.service.ByGenre(request.Context(), genreID, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.GetBook(request.Context(), requestutil.Param(request, "idOrSlug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateBook(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Return the hydrated record so the response carries the resolved
	// genre and author projections.
	created, err := handler.service.GetBook(request.Context(), strconv.Itoa(input.ID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateBook(request.Context(), bookID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.GetBook(request.Context(), strconv.Itoa(bookID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
