package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"museforge/internal/library"
	"museforge/internal/library/service"
	"museforge/internal/library/store/asset"
	id "museforge/pkg/domain"
	"museforge/pkg/requestcontext"
)

type LibraryHandlerSuite struct {
	suite.Suite
	handler *Handler
	svc     *service.Service
	userID  id.UserID
}

func TestLibraryHandlerSuite(t *testing.T) {
	suite.Run(t, new(LibraryHandlerSuite))
}

func (s *LibraryHandlerSuite) SetupTest() {
	svc, err := service.New(asset.NewInMemoryStore())
	s.Require().NoError(err)
	s.svc = svc

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = New(svc, logger, nil)
	s.userID = id.NewUserID()
}

func (s *LibraryHandlerSuite) authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := requestcontext.WithUserID(req.Context(), s.userID)
	return req.WithContext(ctx)
}

// withAssetParam injects the chi URL parameter that routing would normally set.
func withAssetParam(req *http.Request, assetID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("assetID", assetID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func (s *LibraryHandlerSuite) seed(kind library.Kind, name string) library.Asset {
	created, err := s.svc.Create(context.Background(), s.userID, library.Input{
		Kind:   kind,
		Name:   name,
		Prompt: "prompt for " + name,
	})
	s.Require().NoError(err)
	return created
}

func (s *LibraryHandlerSuite) TestCreateReturnsAsset() {
	body, err := json.Marshal(library.Input{
		Kind:   library.KindClothing,
		Name:   "Red dress",
		Prompt: "a red satin dress",
	})
	s.Require().NoError(err)

	w := httptest.NewRecorder()
	s.handler.handleCreate(w, s.authedRequest(http.MethodPost, "/library/assets", body))

	s.Equal(http.StatusCreated, w.Code)
	var created library.Asset
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.False(created.ID.IsNil())
	s.Equal(s.userID, created.UserID)
	s.Equal("Red dress", created.Name)
}

func (s *LibraryHandlerSuite) TestCreateRejectsInvalidKind() {
	body := []byte(`{"kind":"vehicle","name":"Car"}`)

	w := httptest.NewRecorder()
	s.handler.handleCreate(w, s.authedRequest(http.MethodPost, "/library/assets", body))

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LibraryHandlerSuite) TestCreateRejectsMalformedBody() {
	w := httptest.NewRecorder()
	s.handler.handleCreate(w, s.authedRequest(http.MethodPost, "/library/assets", []byte("{not json")))

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LibraryHandlerSuite) TestListFiltersByKind() {
	s.seed(library.KindPose, "Sitting")
	s.seed(library.KindClothing, "Jacket")

	w := httptest.NewRecorder()
	s.handler.handleList(w, s.authedRequest(http.MethodGet, "/library/assets?kind=pose", nil))

	s.Equal(http.StatusOK, w.Code)
	var resp struct {
		Assets []library.Asset `json:"assets"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Assets, 1)
	s.Equal("Sitting", resp.Assets[0].Name)
}

func (s *LibraryHandlerSuite) TestListEmptyLibraryReturnsEmptyArray() {
	w := httptest.NewRecorder()
	s.handler.handleList(w, s.authedRequest(http.MethodGet, "/library/assets", nil))

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"assets":[]}`, w.Body.String())
}

func (s *LibraryHandlerSuite) TestListRejectsUnknownKind() {
	w := httptest.NewRecorder()
	s.handler.handleList(w, s.authedRequest(http.MethodGet, "/library/assets?kind=vehicle", nil))

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LibraryHandlerSuite) TestGetReturnsOwnedAsset() {
	seeded := s.seed(library.KindLocation, "Beach")

	w := httptest.NewRecorder()
	req := withAssetParam(s.authedRequest(http.MethodGet, "/library/assets/"+seeded.ID.String(), nil), seeded.ID.String())
	s.handler.handleGet(w, req)

	s.Equal(http.StatusOK, w.Code)
	var got library.Asset
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(seeded.ID, got.ID)
}

func (s *LibraryHandlerSuite) TestGetUnknownAssetIs404() {
	w := httptest.NewRecorder()
	absent := id.NewAssetID().String()
	req := withAssetParam(s.authedRequest(http.MethodGet, "/library/assets/"+absent, nil), absent)
	s.handler.handleGet(w, req)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *LibraryHandlerSuite) TestGetRejectsMalformedAssetID() {
	w := httptest.NewRecorder()
	req := withAssetParam(s.authedRequest(http.MethodGet, "/library/assets/not-a-uuid", nil), "not-a-uuid")
	s.handler.handleGet(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LibraryHandlerSuite) TestUpdateReplacesFields() {
	seeded := s.seed(library.KindAccessory, "Sunglasses")

	body, err := json.Marshal(library.Input{
		Kind:   library.KindAccessory,
		Name:   "Aviators",
		Prompt: "gold-rimmed aviator sunglasses",
	})
	s.Require().NoError(err)

	w := httptest.NewRecorder()
	req := withAssetParam(s.authedRequest(http.MethodPut, "/library/assets/"+seeded.ID.String(), body), seeded.ID.String())
	s.handler.handleUpdate(w, req)

	s.Equal(http.StatusOK, w.Code)
	var updated library.Asset
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	s.Equal(seeded.ID, updated.ID)
	s.Equal("Aviators", updated.Name)
}

func (s *LibraryHandlerSuite) TestDeleteRemovesAsset() {
	seeded := s.seed(library.KindPose, "Sitting")

	w := httptest.NewRecorder()
	req := withAssetParam(s.authedRequest(http.MethodDelete, "/library/assets/"+seeded.ID.String(), nil), seeded.ID.String())
	s.handler.handleDelete(w, req)

	s.Equal(http.StatusNoContent, w.Code)

	_, err := s.svc.Get(context.Background(), s.userID, seeded.ID)
	s.Error(err)
}

func (s *LibraryHandlerSuite) TestMissingAuthContextIs500() {
	w := httptest.NewRecorder()
	s.handler.handleList(w, httptest.NewRequest(http.MethodGet, "/library/assets", nil))

	s.Equal(http.StatusInternalServerError, w.Code)
}
