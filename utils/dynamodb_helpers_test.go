package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestStringKey(t *testing.T) {
	assert.Equal(t, map[string]types.AttributeValue{
		"username": &types.AttributeValueMemberS{Value: "alice"},
	}, StringKey("username", "alice"))
}
