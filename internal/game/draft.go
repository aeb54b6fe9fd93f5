package game

// --- Drafting ---

type DraftKind int

const (
	DraftMajors DraftKind = iota
	DraftUpgrades
)

func (k DraftKind) String() string {
	switch k {
	case DraftMajors:
		return "majors"
	case DraftUpgrades:
		return "upgrades"
	default:
		return "unknown"
	}
}

type draftResponse struct {
	index   int
	skipped bool
}

// DraftOffer is a set of cards waiting on the player. The session pauses
// while an offer is open and polls for the response each tick, so Choose
// and Skip are safe from the input layer or from a test goroutine alike.
// Only the first response lands; later calls are ignored.
type DraftOffer struct {
	Serial  int
	Kind    DraftKind
	Choices []ModifierCard
	resp    chan draftResponse
}

func newDraftOffer(serial int, kind DraftKind, choices []ModifierCard) *DraftOffer {
	return &DraftOffer{
		Serial:  serial,
		Kind:    kind,
		Choices: choices,
		resp:    make(chan draftResponse, 1),
	}
}

// Choose submits the card at index i. Out-of-range indexes are ignored.
func (d *DraftOffer) Choose(i int) {
	if d == nil || i < 0 || i >= len(d.Choices) {
		return
	}
	select {
	case d.resp <- draftResponse{index: i}:
	default:
	}
}

// Skip declines the offer without applying anything.
func (d *DraftOffer) Skip() {
	if d == nil {
		return
	}
	select {
	case d.resp <- draftResponse{skipped: true}:
	default:
	}
}

// poll returns the response if one has been submitted.
func (d *DraftOffer) poll() (draftResponse, bool) {
	if d == nil {
		return draftResponse{}, false
	}
	select {
	case r := <-d.resp:
		return r, true
	default:
		return draftResponse{}, false
	}
}

func (d *DraftOffer) choiceNames() []string {
	names := make([]string, len(d.Choices))
	for i, c := range d.Choices {
		names[i] = c.Name
	}
	return names
}
