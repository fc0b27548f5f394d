package wheel

import "time"

type Placement struct {
	X float64 `json:"x"` // [-1, 1] поперек биссектрисы
	Y float64 `json:"y"` // [-1, 1] вдоль биссектрисы
}

type Segment struct {
	Label     string     `json:"label"`
	FillColor string     `json:"fill_color,omitempty"` // #rrggbb, пусто - цвет из палитры
	TextColor string     `json:"text_color,omitempty"`
	Image     string     `json:"image,omitempty"` // URL или data URI, только премиум
	Placement *Placement `json:"placement,omitempty"`
	Weight    int        `json:"weight,omitempty"` // вес при случайном выборе
}

type Design struct {
	BackgroundColor *string `json:"background_color,omitempty"`
	BorderColor     *string `json:"border_color,omitempty"`
	TextColor       *string `json:"text_color,omitempty"`
	CenterImage     string  `json:"center_image,omitempty"`
}

type CreateWheelRequest struct {
	ID       string    `json:"id,omitempty"` // uuid ранее созданного колеса, чтобы восстановить угол
	Title    string    `json:"title"`
	Size     string    `json:"size,omitempty"` // small, medium, large
	Segments []Segment `json:"segments"`
	Design   *Design   `json:"design,omitempty"`
	Editable bool      `json:"editable"`
}

type ReplaceSegmentsRequest struct {
	Segments []Segment `json:"segments"`
}

type WheelResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Size         string    `json:"size"`
	Segments     []Segment `json:"segments"`
	Design       *Design   `json:"design,omitempty"`
	Premium      bool      `json:"premium"`
	Editable     bool      `json:"editable"`
	Rotation     float64   `json:"rotation"` // радианы, без приведения
	Spinning     bool      `json:"spinning"`
	LoadedImages int       `json:"loaded_images"`
	CreatedAt    time.Time `json:"created_at"`
}

type SpinRequest struct {
	TargetIndex *int     `json:"target_index,omitempty"` // пусто - выбор по весам
	Jitter      *float64 `json:"jitter,omitempty"`       // [-0.5, 0.5], пусто - случайно
}

type SpinResponse struct {
	RecordID       int64   `json:"record_id"`
	RequestedIndex int     `json:"requested_index"`
	ResolvedIndex  int     `json:"resolved_index"` // победитель, посчитанный по углу
	Label          string  `json:"label"`
	FinalRotation  float64 `json:"final_rotation"`
	Mismatch       bool    `json:"mismatch"`
}

type PointerRequest struct {
	Type string  `json:"type"` // down, move, up
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type PointerResponse struct {
	Dragging  bool       `json:"dragging"`
	Index     int        `json:"index"`
	Placement *Placement `json:"placement,omitempty"`
}

type HistoryItem struct {
	ID             int64     `json:"id"`
	RequestedIndex int       `json:"requested_index"`
	ResolvedIndex  int       `json:"resolved_index"`
	Label          string    `json:"label"`
	FinalRotation  float64   `json:"final_rotation"`
	Mismatch       bool      `json:"mismatch"`
	CreatedAt      time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalSpins    int            `json:"total_spins"`
	Mismatches    int            `json:"mismatches"`
	SegmentHits   map[string]int `json:"segment_hits"`
	RecentResults []int          `json:"recent_results"`
	LastSpinAt    *time.Time     `json:"last_spin_at,omitempty"`
}
