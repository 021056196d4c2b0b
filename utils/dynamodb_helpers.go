package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StringKey builds a single-attribute string key
func StringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}
