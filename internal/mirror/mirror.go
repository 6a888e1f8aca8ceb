package mirror

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Line — локальная копия позиции корзины на стороне клиента.
type Line struct {
	ID          string
	ProductName string
	UnitPrice   float64
	Quantity    int32
}

// CartAPI — серверная корзина с точки зрения клиентского зеркала.
// credential — непрозрачный токен текущей сессии.
type CartAPI interface {
	Fetch(credential string) ([]Line, error)
	Add(credential, productName string, unitPrice float64, quantity int32) (Line, error)
	Remove(credential, lineID string) error
}

// Mirror — локальное зеркало корзины для гостей и оптимистичного UI.
// Всё auth-состояние живёт здесь, в явном объекте сессии; смена
// состояния проходит через единственную точку входа Reconcile.
type Mirror struct {
	mu         sync.Mutex
	api        CartAPI
	credential string
	lines      []Line
	// fetchSeq защищает от гонки пересинхронизаций: применяется
	// только результат последнего начатого fetch.
	fetchSeq uint64
	logger   *log.Entry
}

// New создаёт пустое зеркало без учётных данных.
func New(api CartAPI) *Mirror {
	return &Mirror{
		api:    api,
		logger: log.WithField("component", "cart-mirror"),
	}
}

// Reconcile — единственная точка входа для смены auth-состояния:
// логин, логаут, старт приложения. Пустой credential стирает зеркало;
// непустой перезаписывает его содержимым серверной корзины целиком.
func (m *Mirror) Reconcile(credential string) error {
	m.mu.Lock()
	m.credential = credential
	if credential == "" {
		m.lines = nil
		m.mu.Unlock()
		return nil
	}
	m.fetchSeq++
	seq := m.fetchSeq
	m.mu.Unlock()

	fetched, err := m.api.Fetch(credential)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.fetchSeq || m.credential != credential {
		// Уже начата более свежая пересинхронизация или сменилась сессия.
		return nil
	}
	m.lines = append([]Line(nil), fetched...)

	return nil
}

// Add добавляет позицию. При наличии credential операция идёт на сервер;
// ошибка транспорта деградирует в локальную мутацию зеркала.
func (m *Mirror) Add(productName string, unitPrice float64, quantity int32) Line {
	if quantity <= 0 {
		quantity = 1
	}

	m.mu.Lock()
	credential := m.credential
	m.mu.Unlock()

	if credential != "" {
		line, err := m.api.Add(credential, productName, unitPrice, quantity)
		if err == nil {
			m.applyServerLine(line)
			return line
		}
		m.logger.WithError(err).Warn("server add failed, mutating local mirror")
	}

	return m.addLocal(productName, unitPrice, quantity)
}

// Remove удаляет позицию. Серверная ошибка деградирует в локальное удаление.
func (m *Mirror) Remove(lineID string) {
	m.mu.Lock()
	credential := m.credential
	m.mu.Unlock()

	if credential != "" {
		if err := m.api.Remove(credential, lineID); err != nil {
			m.logger.WithError(err).Warn("server remove failed, mutating local mirror")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, line := range m.lines {
		if line.ID == lineID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return
		}
	}
}

// Lines возвращает копию текущего содержимого зеркала.
func (m *Mirror) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line(nil), m.lines...)
}

// Authenticated сообщает, привязано ли зеркало к сессии.
func (m *Mirror) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential != ""
}

func (m *Mirror) applyServerLine(line Line) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ID == line.ID || m.lines[i].ProductName == line.ProductName {
			m.lines[i] = line
			return
		}
	}
	m.lines = append(m.lines, line)
}

func (m *Mirror) addLocal(productName string, unitPrice float64, quantity int32) Line {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductName == productName {
			// Повторное добавление: ровно +1, как на сервере.
			m.lines[i].Quantity++
			return m.lines[i]
		}
	}

	line := Line{
		ID:          "local-" + uuid.NewString(),
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}
	m.lines = append(m.lines, line)

	return line
}
