package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/document"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// cellRef is a cell position on the wire.
type cellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func refs(as []grid.Address) []cellRef {
	out := make([]cellRef, len(as))
	for i, a := range as {
		out[i] = cellRef{Row: a.Row(), Col: a.Col()}
	}
	return out
}

type createRequest struct {
	ID      string `json:"id"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Gutter  *int   `json:"gutterSize"`
}

// dragRequest describes a drag. Kind is "palette" with Type set, or "cell"
// with From naming the origin of the widget being moved.
type dragRequest struct {
	Kind   string   `json:"kind"`
	Type   string   `json:"type,omitempty"`
	From   *cellRef `json:"from,omitempty"`
	Target cellRef  `json:"target"`
}

type verdictResponse struct {
	Valid        bool      `json:"valid"`
	HasCollision bool      `json:"hasCollision"`
	OutOfBounds  bool      `json:"outOfBounds"`
	Invalid      []cellRef `json:"invalid"`
	Highlighted  []cellRef `json:"highlighted"`
}

type resizeRequest struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Direction string `json:"direction"`
	Delta     int    `json:"delta"`
}

type problemsResponse struct {
	Problems []string `json:"problems"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Current(),
	})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": s.types.Definitions()})
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"boards": ids})
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := errors.ValidateDashboardID(req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := s.cfg.Grid
	cfg.DashboardID = req.ID
	if req.Rows != 0 {
		cfg.Rows = req.Rows
	}
	if req.Columns != 0 {
		cfg.Columns = req.Columns
	}
	if req.Gutter != nil {
		cfg.Gutter = *req.Gutter
	}
	b, err := board.New(cfg, s.types)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer b.Close()

	unlock := s.locks.Lock(req.ID)
	defer unlock()

	if _, err := s.store.Get(r.Context(), req.ID); err == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeBoardExists, "board %s already exists", req.ID))
		return
	} else if !errors.Is(err, errors.ErrCodeBoardNotFound) {
		s.writeError(w, r, err)
		return
	}

	doc := document.Export(b, document.Options{})
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePutBoard imports a document and stores the normalized result.
// With ?strict=true, layouts with overlaps or out-of-bounds widgets are
// rejected with 422 and the list of problems.
func (s *Server) handlePutBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDashboardID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := document.ReadJSON(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if doc.DashboardID == "" {
		doc.DashboardID = id
	}
	if doc.DashboardID != id {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"dashboard id %q does not match path %q", doc.DashboardID, id))
		return
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	b, err := board.New(s.cfg.Grid, s.types)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer b.Close()
	shared := widget.NewSharedStore()
	if err := document.Import(b, doc, document.Options{Shared: shared}); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strict, _ := strconv.ParseBool(r.URL.Query().Get("strict")); strict {
		if problems := b.Validate(); len(problems) > 0 {
			resp := problemsResponse{}
			for _, p := range problems {
				resp.Problems = append(resp.Problems, p.String())
			}
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
	}
	s.save(w, r, b, shared, http.StatusOK)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	unlock := s.locks.Lock(id)
	defer unlock()

	b, _, err := s.load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer b.Close()

	p, target, err := payload(b, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b.StartDrag(p)
	b.SetHoveredCell(&target)
	v := b.CurrentVerdict()
	writeJSON(w, http.StatusOK, verdictResponse{
		Valid:        v.Valid(),
		HasCollision: v.HasCollision,
		OutOfBounds:  v.OutOfBounds,
		Invalid:      refs(v.Invalid),
		Highlighted:  refs(b.HoveredFootprint()),
	})
}

// handleDrop applies a drop and answers 409 with the verdict when the
// placement is rejected.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	unlock := s.locks.Lock(id)
	defer unlock()

	b, shared, err := s.load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer b.Close()

	p, target, err := payload(b, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b.StartDrag(p)
	res := b.HandleDrop(p, target)
	if !res.Applied {
		writeJSON(w, http.StatusConflict, verdictResponse{
			HasCollision: res.Verdict.HasCollision,
			OutOfBounds:  res.Verdict.OutOfBounds,
			Invalid:      refs(res.Verdict.Invalid),
			Highlighted:  refs(grid.HighlightedZones(&p, &target)),
		})
		return
	}
	s.save(w, r, b, shared, http.StatusOK)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	dir, ok := grid.ParseDirection(req.Direction)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown direction %q", req.Direction))
		return
	}
	id := chi.URLParam(r, "id")
	unlock := s.locks.Lock(id)
	defer unlock()

	b, shared, err := s.load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer b.Close()

	wd, err := widgetAt(b, req.Row, req.Col)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b.StartResize(wd.ID)
	b.UpdatePreview(dir, req.Delta)
	b.EndResize(true)
	s.save(w, r, b, shared, http.StatusOK)
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	row, errRow := strconv.Atoi(chi.URLParam(r, "row"))
	col, errCol := strconv.Atoi(chi.URLParam(r, "col"))
	if errRow != nil || errCol != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidCoordinate, "row and col must be integers"))
		return
	}
	id := chi.URLParam(r, "id")
	unlock := s.locks.Lock(id)
	defer unlock()

	b, shared, err := s.load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer b.Close()

	wd, err := widgetAt(b, row, col)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b.Remove(wd.ID)
	s.save(w, r, b, shared, http.StatusOK)
}

// load reads a stored document into a fresh board. The caller holds the
// board's lock and closes the returned board.
func (s *Server) load(ctx context.Context, id string) (*board.Board, *widget.SharedStore, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := board.New(s.cfg.Grid, s.types)
	if err != nil {
		return nil, nil, err
	}
	shared := widget.NewSharedStore()
	if err := document.Import(b, doc, document.Options{Shared: shared}); err != nil {
		b.Close()
		return nil, nil, err
	}
	return b, shared, nil
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, b *board.Board, shared *widget.SharedStore, status int) {
	doc := document.Export(b, document.Options{Shared: shared})
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, doc)
}

// payload builds the drag payload and target cell for req.
func payload(b *board.Board, req dragRequest) (grid.DragPayload, grid.Address, error) {
	target, err := grid.Encode(req.Target.Row, req.Target.Col)
	if err != nil {
		return grid.DragPayload{}, 0, err
	}
	switch req.Kind {
	case "palette":
		if err := errors.ValidateTypeID(req.Type); err != nil {
			return grid.DragPayload{}, 0, err
		}
		return grid.PaletteDrag(req.Type), target, nil
	case "cell":
		if req.From == nil {
			return grid.DragPayload{}, 0, errors.New(errors.ErrCodeInvalidInput, "cell drag needs from")
		}
		wd, err := widgetAt(b, req.From.Row, req.From.Col)
		if err != nil {
			return grid.DragPayload{}, 0, err
		}
		return grid.CellDrag(wd), target, nil
	default:
		return grid.DragPayload{}, 0, errors.New(errors.ErrCodeInvalidInput, "unknown drag kind %q", req.Kind)
	}
}

// widgetAt finds the widget whose origin is (row, col). Documents carry no
// instance ids, so clients address widgets by origin.
func widgetAt(b *board.Board, row, col int) (grid.Widget, error) {
	wd, ok := grid.WidgetAtOrigin(b.Widgets(), row, col)
	if !ok {
		return grid.Widget{}, errors.New(errors.ErrCodeWidgetNotFound, "no widget at r%dc%d", row, col)
	}
	return wd, nil
}

func errorResponse(code errors.Code, msg string) map[string]errorBody {
	return map[string]errorBody{"error": {Code: code, Message: msg}}
}
