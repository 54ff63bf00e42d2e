package staffdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/breaker"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент справочника персонала
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[any]
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника персонала
func NewClient(baseURL string, timeout time.Duration, settings breaker.Settings, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker.New("staff_directory", settings, log, func(err error) bool {
			// 404 - бизнес-ответ, а не сбой справочника
			return err == nil || errors.Is(err, domain.ErrNotFound)
		}),
		log: log,
	}
}

// ListStaffByBranch получает активных сотрудников филиала в порядке справочника
func (c *Client) ListStaffByBranch(ctx context.Context, branchID string) ([]domain.StaffRecord, error) {
	endpoint := fmt.Sprintf("%s/internal/branches/%s/staff", c.baseURL, url.PathEscape(branchID))

	var resp StaffListResponse
	if err := c.get(ctx, endpoint, ErrBranchNotFound, &resp); err != nil {
		return nil, err
	}

	staff := make([]domain.StaffRecord, 0, len(resp.Staff))
	for _, s := range resp.Staff {
		if !s.IsActive {
			continue
		}
		staff = append(staff, s.toDomain())
	}

	c.log.Info("Fetched %d active staff of %d for branch=%s", len(staff), len(resp.Staff), branchID)
	return staff, nil
}

// GetStaff получает сотрудника по ID
func (c *Client) GetStaff(ctx context.Context, stylistID string) (*domain.StaffRecord, error) {
	endpoint := fmt.Sprintf("%s/internal/staff/%s", c.baseURL, url.PathEscape(stylistID))

	var staff Staff
	if err := c.get(ctx, endpoint, ErrStaffNotFound, &staff); err != nil {
		return nil, err
	}

	record := staff.toDomain()
	return &record, nil
}

// get выполняет GET запрос через circuit breaker и декодирует ответ в out
func (c *Client) get(ctx context.Context, endpoint string, notFound error, out interface{}) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.do(ctx, endpoint, notFound, out)
	})
	if breaker.IsOpen(err) {
		c.log.Warn("Staff directory circuit is open, request to %s rejected", endpoint)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, endpoint string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Staff directory request %s failed: %v", endpoint, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return notFound
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
