package engine

// View is the read-only projection handed to presentation.
type View struct {
	State
	HandPreview     []CardPreview   `json:"hand_preview"`
	CompanionsReady map[string]bool `json:"companions_ready"`
	IncomingAttack  int             `json:"incoming_attack"`
	Busy            bool            `json:"busy"`
}

// View snapshots the battle for display.
func (b *Battle) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return View{
		State:           b.s.clone(),
		HandPreview:     previewHand(&b.s, b.handler),
		CompanionsReady: b.companionsReady(),
		IncomingAttack:  AttackDamage(&b.s),
		Busy:            b.busy.Load(),
	}
}
