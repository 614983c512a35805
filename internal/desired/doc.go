// Package desired derives the workload objects that represent a DotNetApp.
//
// Derivation is a pure function of the DotNetApp: the same input always
// yields deeply-equal objects. Names and labels are the identity under which
// objects created by earlier runs are matched, so they must not change:
//
//	Deployment/Service name:  <app>-d6s
//	Container name:           <app>-app
//	Labels:                   dotnetes/dotnetes=1, dotnetes/app=<app>
package desired
