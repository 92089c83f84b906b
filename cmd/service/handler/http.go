package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vidalaw/intake-api/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
