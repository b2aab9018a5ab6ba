package router

import "go.uber.org/fx"

// Module provides the storefront *gin.Engine built by Setup.
var Module = fx.Provide(Setup)
