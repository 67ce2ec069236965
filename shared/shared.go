package shared

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"vrent/shared/cache"
	"vrent/shared/constant"
	"vrent/shared/dto"
	"vrent/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

// AuditFields returns just the modification stamp, for updates that set columns directly.
func AuditFields(actor string) map[string]any {
	return TransformFields(struct{}{}, actor)
}

// IsUUID reports whether id can name a row. Anything else cannot exist.
func IsUUID(id string) bool {
	return uuid.Validate(id) == nil
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// ActorFromContext returns the actor recorded by the actor middleware, or the system actor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(constant.ContextKeyActor).(string); ok && actor != constant.Empty {
		return actor
	}

	return constant.ContextSystem
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery keys a list query by its paging and a digest of the filter.
func BuildCacheKeyWithQuery(prefix string, req dto.QueryParams, filter dto.FilterGroup) string {
	clause, args := filter.GetWhereClause()

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	slices.Sort(names)

	var builder strings.Builder

	builder.WriteString(clause)

	for _, name := range names {
		fmt.Fprintf(&builder, "|%s=%v", name, args[name])
	}

	digest := sha256.Sum256([]byte(builder.String()))

	return fmt.Sprintf("%s:%d:%d:%s:%s:%x", prefix, req.Page, req.Limit, req.SortBy, req.SortDir, digest[:8])
}

// InvalidateCaches removes every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
