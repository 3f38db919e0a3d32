package meeting

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pagebound/bookclub/internal/platform/request"
	"github.com/pagebound/bookclub/internal/platform/respond"
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

	router.Get("/", handler.listMeetings)
	router.Get("/{id}", handler.getMeeting)
	router.Post("/", handler.createMeeting)
	router.Put("/{id}", handler.updateMeeting)
	router.Put("/{id}/associations", handler.replaceAssociations)
	router.Delete("/{id}", handler.deleteMeeting)

	return router
}

func (handler *Handler) listMeetings(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	meetings, total, err := handler.service.ListMeetings(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, meetings, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getMeeting(writer http.ResponseWriter, request *http.Request) {
	meetingID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	meeting, err := handler.service.GetMeeting(request.Context(), meetingID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, meeting)
}

func (handler *Handler) createMeeting(writer http.ResponseWriter, request *http.Request) {
	var input Meeting
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateMeeting(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Return the hydrated record so the response carries resolved book
	// titles and member names rather than the raw id arrays.
	created, err := handler.service.GetMeeting(request.Context(), input.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateMeeting(writer http.ResponseWriter, request *http.Request) {
	meetingID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Meeting
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateMeeting(request.Context(), meetingID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.GetMeeting(request.Context(), meetingID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) replaceAssociations(writer http.ResponseWriter, request *http.Request) {
	meetingID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Associations
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ReplaceAssociations(request.Context(), meetingID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.GetMeeting(request.Context(), meetingID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteMeeting(writer http.ResponseWriter, request *http.Request) {
	meetingID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteMeeting(request.Context(), meetingID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
