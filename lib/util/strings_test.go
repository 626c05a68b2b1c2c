package util_test

import (
	"testing"

	"github.com/makinacorpus/xsdgen/lib/util"
	"github.com/stretchr/testify/assert"
)

func TestCondJoin(t *testing.T) {
	assert.Equal(t, `App\Soap`, util.CondJoin(`\`, "", "App", "", "Soap"))
	assert.Equal(t, "", util.CondJoin(`\`, "", ""))
}

func TestWordsOfNamespace(t *testing.T) {
	assert.Equal(t, []string{"schemas", "makina", "corpus", "com", "testing"}, util.Words("schemas.makina-corpus.com/testing/"))
	assert.Equal(t, []string{"Basket_Tags"}, util.Words("Basket_Tags"))
	assert.Empty(t, util.Words("://"))
}

func TestCaseFirst(t *testing.T) {
	assert.Equal(t, "PhoneNumber", util.UcFirst("phoneNumber"))
	assert.Equal(t, "phoneNumber", util.LcFirst("PhoneNumber"))
	assert.Equal(t, "Été", util.UcFirst("été"))
	assert.Equal(t, "", util.UcFirst(""))
}

func TestIStrsContains(t *testing.T) {
	assert.True(t, util.IStrsContains([]string{"object", "list"}, "Object"))
	assert.False(t, util.IStrsContains([]string{"object"}, "objects"))
}
