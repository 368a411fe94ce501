// Package docstore хранит журнал намерений регистрации (Document Store).
// Запись намерения делается до вставки в реляционную БД, поэтому регистрацию
// всегда можно довести до конца повторным проигрыванием.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrIntentNotFound = errors.New("registration intent not found")

type IntentStatus string

const (
	IntentPending    IntentStatus = "pending"
	IntentReconciled IntentStatus = "reconciled"
	IntentFailed     IntentStatus = "failed"
)

// RegistrationIntent - документ регистрации, ключ - uid провайдера.
// Payload - исходное тело запроса {profile, roles} в JSON.
type RegistrationIntent struct {
	UID       string          `bson:"_id" json:"uid"`
	Email     string          `bson:"email" json:"email"`
	Name      string          `bson:"name,omitempty" json:"name,omitempty"`
	Payload   json.RawMessage `bson:"payload" json:"payload"`
	Status    IntentStatus    `bson:"status" json:"status"`
	Attempts  int             `bson:"attempts" json:"attempts"`
	LastError string          `bson:"last_error,omitempty" json:"lastError,omitempty"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updatedAt"`
}

// IntentStore - операции над журналом намерений
type IntentStore interface {
	// Save - идемпотентный upsert по UID. Статус сбрасывается в pending.
	Save(ctx context.Context, intent *RegistrationIntent) error
	Get(ctx context.Context, uid string) (*RegistrationIntent, error)
	MarkReconciled(ctx context.Context, uid string) error
	MarkFailed(ctx context.Context, uid string, cause error) error
	// ListPending - pending и failed намерения, не обновлявшиеся с olderThan,
	// у которых Attempts < maxAttempts (0 - без ограничения). Старые идут первыми.
	ListPending(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]*RegistrationIntent, error)
	Close(ctx context.Context) error
}
