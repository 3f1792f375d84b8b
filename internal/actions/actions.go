package actions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/songzhibin97/coinsage/internal/models"
)

// ParamType 参数类型, 对应JSON schema的基础类型
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
)

// Param 单个参数的声明
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any // 仅对可选参数有意义
	Description string
}

// HandlerFunc executes an action with validated parameters.
type HandlerFunc func(ctx context.Context, params map[string]any) (*models.ActionResponse, error)

// Action 一个可被代理调用的具名操作
type Action struct {
	Name        string
	Description string
	Params      []Param
	Handler     HandlerFunc
}

// Registry holds the fixed set of actions the agent may invoke. All calls go
// through Invoke so schema validation cannot be bypassed.
type Registry struct {
	actions map[string]Action
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		actions: make(map[string]Action),
		logger:  logger,
	}
}

// Register adds an action to the registry, rejecting duplicate names.
func (r *Registry) Register(action Action) error {
	if action.Name == "" {
		return fmt.Errorf("action name must not be empty")
	}
	if action.Handler == nil {
		return fmt.Errorf("action %s has no handler", action.Name)
	}
	if _, exists := r.actions[action.Name]; exists {
		return fmt.Errorf("action %s already registered", action.Name)
	}
	r.actions[action.Name] = action
	return nil
}

// Invoke validates the request against the action's schema and runs its
// handler. Malformed input never reaches a handler: it is rejected here
// with a descriptive error.
func (r *Registry) Invoke(ctx context.Context, req models.ActionRequest) (*models.ActionResponse, error) {
	action, exists := r.actions[req.Name]
	if !exists {
		return nil, fmt.Errorf("unknown action: %s", req.Name)
	}

	validated, err := validateParams(action, req.Parameters)
	if err != nil {
		r.logger.Error("action parameter validation failed", "action", req.Name, "err", err)
		return nil, fmt.Errorf("invalid parameters for %s: %w", req.Name, err)
	}

	r.logger.Info("invoking action", "action", req.Name)
	return action.Handler(ctx, validated)
}

// List returns registered actions in name order.
func (r *Registry) List() []Action {
	result := make([]Action, 0, len(r.actions))
	for _, a := range r.actions {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// OpenAITools exposes the registry as function-calling tool definitions so
// the model can select actions by name.
func (r *Registry) OpenAITools() []openai.Tool {
	actions := r.List()
	tools := make([]openai.Tool, 0, len(actions))
	for _, a := range actions {
		properties := make(map[string]any, len(a.Params))
		required := make([]string, 0)
		for _, p := range a.Params {
			properties[p.Name] = map[string]any{
				"type":        string(p.Type),
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}

		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        a.Name,
				Description: a.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return tools
}

// validateParams 校验必填项和类型, 并为缺失的可选参数填入默认值
func validateParams(action Action, params map[string]any) (map[string]any, error) {
	validated := make(map[string]any, len(action.Params))

	for _, p := range action.Params {
		value, present := params[p.Name]
		if !present || value == nil {
			if p.Required {
				return nil, fmt.Errorf("missing required parameter %q", p.Name)
			}
			if p.Default != nil {
				validated[p.Name] = p.Default
			}
			continue
		}

		coerced, err := coerce(value, p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		validated[p.Name] = coerced
	}

	for name := range params {
		if !hasParam(action, name) {
			return nil, fmt.Errorf("unexpected parameter %q", name)
		}
	}

	return validated, nil
}

func hasParam(action Action, name string) bool {
	for _, p := range action.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// coerce 将JSON解码出的值规整为声明类型
func coerce(value any, t ParamType) (any, error) {
	switch t {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return s, nil
	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		default:
			return nil, fmt.Errorf("expected number, got %T", value)
		}
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", t)
	}
}

// newResponse 统一填充时间戳
func newResponse(data any, message, category string) *models.ActionResponse {
	return &models.ActionResponse{
		Data:      data,
		Message:   message,
		Category:  category,
		Timestamp: time.Now(),
	}
}
