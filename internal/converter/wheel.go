package converter

import (
	"strconv"

	dto "prize_wheel/internal/api/dto/wheel"
	"prize_wheel/internal/model"
)

func ToWidgetInput(req dto.CreateWheelRequest) (model.WidgetInput, error) {
	segments, err := ToSegments(req.Segments)
	if err != nil {
		return model.WidgetInput{}, err
	}

	var design model.WheelDesign
	if req.Design != nil {
		design, err = ToDesign(*req.Design)
		if err != nil {
			return model.WidgetInput{}, err
		}
	}

	return model.WidgetInput{
		ID:       req.ID,
		Title:    req.Title,
		Size:     model.SizePreset(req.Size),
		Segments: segments,
		Design:   design,
		Editable: req.Editable,
	}, nil
}

func ToSegments(in []dto.Segment) ([]model.Segment, error) {
	out := make([]model.Segment, 0, len(in))
	for _, s := range in {
		seg := model.Segment{
			Label:  s.Label,
			Image:  model.ImageRef(s.Image),
			Weight: s.Weight,
		}

		var err error
		if seg.FillColor, err = parseOptionalColor(s.FillColor); err != nil {
			return nil, err
		}
		if seg.TextColor, err = parseOptionalColor(s.TextColor); err != nil {
			return nil, err
		}
		if s.Placement != nil {
			seg.Placement = &model.Placement{X: s.Placement.X, Y: s.Placement.Y}
		}
		out = append(out, seg)
	}
	return out, nil
}

func ToDesign(in dto.Design) (model.WheelDesign, error) {
	d := model.WheelDesign{CenterImage: model.ImageRef(in.CenterImage)}

	var err error
	if d.BackgroundColor, err = parseColorPtr(in.BackgroundColor); err != nil {
		return model.WheelDesign{}, err
	}
	if d.BorderColor, err = parseColorPtr(in.BorderColor); err != nil {
		return model.WheelDesign{}, err
	}
	if d.TextColor, err = parseColorPtr(in.TextColor); err != nil {
		return model.WheelDesign{}, err
	}
	return d, nil
}

func ToSpinCommand(req dto.SpinRequest) model.SpinCommand {
	return model.SpinCommand{
		TargetIndex: req.TargetIndex,
		Jitter:      req.Jitter,
	}
}

func ToPointerEvent(req dto.PointerRequest) model.PointerEvent {
	return model.PointerEvent{
		Kind: model.PointerKind(req.Type),
		X:    req.X,
		Y:    req.Y,
	}
}

func ToWheelResponse(w model.Widget) dto.WheelResponse {
	res := dto.WheelResponse{
		ID:           w.ID,
		Title:        w.Title,
		Size:         string(w.Size),
		Segments:     toSegmentDTOs(w.Segments),
		Premium:      w.Premium,
		Editable:     w.Editable,
		Rotation:     w.Rotation,
		Spinning:     w.Spinning,
		LoadedImages: w.LoadedImages,
		CreatedAt:    w.CreatedAt,
	}
	if !w.Design.IsZero() {
		d := toDesignDTO(w.Design)
		res.Design = &d
	}
	return res
}

func ToSpinResponse(s model.WidgetSpin) dto.SpinResponse {
	return dto.SpinResponse{
		RecordID:       s.RecordID,
		RequestedIndex: s.Outcome.RequestedSegmentIndex,
		ResolvedIndex:  s.Outcome.ResolvedSegmentIndex,
		Label:          s.Label,
		FinalRotation:  s.Outcome.FinalRotation,
		Mismatch:       s.Outcome.Mismatch,
	}
}

func ToPointerResponse(r model.PointerResult) dto.PointerResponse {
	res := dto.PointerResponse{Dragging: r.Dragging, Index: r.Index}
	if r.Placement != nil {
		res.Placement = &dto.Placement{X: r.Placement.X, Y: r.Placement.Y}
	}
	return res
}

func ToHistoryResponse(records []model.SpinRecord) []dto.HistoryItem {
	out := make([]dto.HistoryItem, 0, len(records))
	for _, r := range records {
		out = append(out, dto.HistoryItem{
			ID:             r.ID,
			RequestedIndex: r.RequestedIndex,
			ResolvedIndex:  r.ResolvedIndex,
			Label:          r.Label,
			FinalRotation:  r.FinalRotation,
			Mismatch:       r.Mismatch,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out
}

// ToStatsResponse ключи JSON-объекта только строки, поэтому индексы сегментов переводим в строки
func ToStatsResponse(s model.WheelStats) dto.StatsResponse {
	hits := make(map[string]int, len(s.SegmentHits))
	for idx, n := range s.SegmentHits {
		hits[strconv.Itoa(idx)] = n
	}
	res := dto.StatsResponse{
		TotalSpins:    s.TotalSpins,
		Mismatches:    s.Mismatches,
		SegmentHits:   hits,
		RecentResults: s.RecentResults,
	}
	if res.RecentResults == nil {
		res.RecentResults = []int{}
	}
	if !s.LastSpinAt.IsZero() {
		at := s.LastSpinAt
		res.LastSpinAt = &at
	}
	return res
}

func toSegmentDTOs(in []model.Segment) []dto.Segment {
	out := make([]dto.Segment, 0, len(in))
	for _, s := range in {
		seg := dto.Segment{
			Label:  s.Label,
			Image:  string(s.Image),
			Weight: s.Weight,
		}
		if s.FillColor != nil {
			seg.FillColor = s.FillColor.Hex()
		}
		if s.TextColor != nil {
			seg.TextColor = s.TextColor.Hex()
		}
		if s.Placement != nil {
			seg.Placement = &dto.Placement{X: s.Placement.X, Y: s.Placement.Y}
		}
		out = append(out, seg)
	}
	return out
}

func toDesignDTO(d model.WheelDesign) dto.Design {
	return dto.Design{
		BackgroundColor: colorHexPtr(d.BackgroundColor),
		BorderColor:     colorHexPtr(d.BorderColor),
		TextColor:       colorHexPtr(d.TextColor),
		CenterImage:     string(d.CenterImage),
	}
}

// parseOptionalColor пустая строка - цвет не задан
func parseOptionalColor(s string) (*model.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := model.ParseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func parseColorPtr(s *string) (*model.Color, error) {
	if s == nil {
		return nil, nil
	}
	return parseOptionalColor(*s)
}

func colorHexPtr(c *model.Color) *string {
	if c == nil {
		return nil
	}
	s := c.Hex()
	return &s
}
