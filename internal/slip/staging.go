package slip

// Staging guarda a cópia editável da tabela antes da exportação.
// Edições aqui nunca afetam a seleção nem a tabela regenerada.
//
// Não protege linhas de cabeçalho: quem expõe a edição decide o que é somente leitura.
type Staging struct {
	rows      []Row
	active    bool
	visible   bool // preview aberto; uma cópia commitada sobrevive ao fechamento
	committed bool
}

func NewStaging() *Staging { return &Staging{} }

// Open tira um snapshot independente das linhas e zera o estado de commit
func (s *Staging) Open(rows []Row) {
	s.rows = cloneRows(rows)
	s.active = true
	s.visible = true
	s.committed = false
}

func (s *Staging) Active() bool    { return s.active }
func (s *Staging) Visible() bool   { return s.visible }
func (s *Staging) Committed() bool { return s.active && s.committed }
func (s *Staging) Len() int        { return len(s.rows) }

// Rows devolve uma cópia das linhas em staging
func (s *Staging) Rows() []Row { return cloneRows(s.rows) }

// Row devolve a linha i; false se fora do intervalo
func (s *Staging) Row(i int) (Row, bool) {
	if i < 0 || i >= len(s.rows) {
		return Row{}, false
	}
	return s.rows[i], true
}

// SetCell altera uma célula; índice fora do intervalo é ignorado (devolve false)
func (s *Staging) SetCell(i int, c Column, v string) bool {
	if i < 0 || i >= len(s.rows) {
		return false
	}
	s.rows[i].Set(c, v)
	return true
}

// Commit marca a cópia como fonte da exportação; não faz nada sem staging aberto
func (s *Staging) Commit() {
	if s.active {
		s.committed = true
	}
}

// Close fecha o preview; uma cópia já commitada continua valendo para a exportação
func (s *Staging) Close() {
	s.visible = false
	if s.committed {
		return
	}
	s.Discard()
}

// Discard descarta a cópia incondicionalmente
func (s *Staging) Discard() {
	s.rows = nil
	s.active = false
	s.visible = false
	s.committed = false
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
