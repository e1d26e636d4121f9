package detector

import "testfold/pkg/detector/manifest"

var (
	pythonManifests = []string{
		"pyproject.toml",
		"requirements.txt",
		"requirements-dev.txt",
		"requirements-test.txt",
		"dev-requirements.txt",
		"setup.cfg",
	}
	goManifest    = []string{"go.mod"}
	cargoManifest = []string{"Cargo.toml"}
)

func configFiles(base string, exts ...string) []string {
	out := make([]string, len(exts))
	for i, ext := range exts {
		out[i] = base + "." + ext
	}
	return out
}

var jsExts = []string{"js", "mjs", "cjs", "ts", "mts", "cts"}

// Frameworks is the framework catalogue. Order breaks score ties.
func Frameworks() []Profile {
	return []Profile{
		NewProfile("Next.js").
			Dependency([]string{"next"}, WeightDependency, "next in package.json").
			AnyFile(configFiles("next.config", "js", "mjs", "ts"), WeightConfigFile, "next.config present").
			Content([]string{"package.json"}, `"next (dev|build|start)`, WeightScript, "next scripts in package.json").
			AnyFile([]string{"pages", "app", "src/pages", "src/app"}, WeightStructure, "pages/ or app/ directory").
			Threshold(0.3).
			Build(),

		NewProfile("Remix").
			Dependency([]string{"@remix-run/react", "@remix-run/node", "@remix-run/dev"}, WeightDependency, "@remix-run packages in package.json").
			AnyFile(configFiles("remix.config", "js", "mjs"), WeightConfigFile, "remix.config present").
			File("app/root.tsx", WeightStructure, "app/root.tsx").
			Threshold(0.3).
			Build(),

		NewProfile("Nuxt").
			Dependency([]string{"nuxt", "nuxt3"}, WeightDependency, "nuxt in package.json").
			AnyFile(configFiles("nuxt.config", "js", "ts"), WeightConfigFile, "nuxt.config present").
			Threshold(0.3).
			Build(),

		NewProfile("SvelteKit").
			Dependency([]string{"@sveltejs/kit"}, WeightDependency, "@sveltejs/kit in package.json").
			AnyFile(configFiles("svelte.config", "js", "mjs", "ts"), WeightConfigFile, "svelte.config present").
			File("src/routes", WeightStructure, "src/routes directory").
			Threshold(0.3).
			Build(),

		NewProfile("Astro").
			Dependency([]string{"astro"}, WeightDependency, "astro in package.json").
			AnyFile(configFiles("astro.config", "mjs", "js", "ts"), WeightConfigFile, "astro.config present").
			AnyFile([]string{"src/**/*.astro"}, WeightFilePattern, ".astro files").
			Threshold(0.3).
			Build(),

		NewProfile("Angular").
			Dependency([]string{"@angular/core"}, WeightDependency, "@angular/core in package.json").
			File("angular.json", WeightConfigFile, "angular.json").
			Threshold(0.3).
			Build(),

		NewProfile("Vite + React").
			Dependency([]string{"vite"}, WeightDependency, "vite in package.json").
			Dependency([]string{"react"}, WeightDependency, "react in package.json").
			AnyFile(configFiles("vite.config", jsExts...), WeightConfigFile, "vite.config present").
			Dependency([]string{"@vitejs/plugin-react", "@vitejs/plugin-react-swc"}, WeightScript, "vite react plugin").
			Excludes("Next.js", "Remix", "Astro").
			Threshold(0.4).
			Build(),

		NewProfile("Create React App").
			Dependency([]string{"react-scripts"}, WeightDependency, "react-scripts in package.json").
			Dependency([]string{"react"}, WeightDependency, "react in package.json").
			File("public/index.html", WeightStructure, "public/index.html").
			Excludes("Next.js").
			Threshold(0.4).
			Build(),

		NewProfile("Vue").
			Dependency([]string{"vue"}, WeightDependency, "vue in package.json").
			AnyFile([]string{"src/**/*.vue"}, WeightFilePattern, ".vue files").
			AnyFile(configFiles("vue.config", "js", "ts"), WeightMinorIndicator, "vue.config present").
			Excludes("Nuxt").
			Threshold(0.4).
			Build(),

		NewProfile("NestJS").
			Dependency([]string{"@nestjs/core"}, WeightDependency, "@nestjs/core in package.json").
			File("nest-cli.json", WeightBuildTool, "nest-cli.json").
			Threshold(0.3).
			Build(),

		NewProfile("Fastify").
			DependencyIn(nil, manifest.ScopeDependencies, []string{"fastify"}, WeightDependency, "fastify in dependencies").
			Threshold(0.5).
			Build(),

		NewProfile("Express").
			DependencyIn(nil, manifest.ScopeDependencies, []string{"express"}, WeightDependency, "express in dependencies").
			AnyFile([]string{"app.js", "server.js", "src/app.js", "src/server.js", "src/app.ts", "src/server.ts"}, WeightMinorIndicator, "server entrypoint").
			Excludes("NestJS").
			Threshold(0.5).
			Build(),

		NewProfile("Django").
			File("manage.py", WeightBuildTool, "manage.py").
			DependencyIn(pythonManifests, manifest.ScopeBoth, []string{"django"}, WeightDependency, "django in python dependencies").
			AnyFile([]string{"wsgi.py", "asgi.py", "*/wsgi.py", "*/asgi.py"}, WeightStructure, "wsgi/asgi module").
			Threshold(0.3).
			Build(),

		NewProfile("FastAPI").
			DependencyIn(pythonManifests, manifest.ScopeBoth, []string{"fastapi"}, WeightDependency, "fastapi in python dependencies").
			Content([]string{"main.py", "app.py", "app/main.py", "src/main.py"}, `(?m)^from fastapi import|^import fastapi`, WeightConfigFile, "FastAPI import in entrypoint").
			Threshold(0.3).
			Build(),

		NewProfile("Flask").
			DependencyIn(pythonManifests, manifest.ScopeBoth, []string{"flask"}, WeightDependency, "flask in python dependencies").
			Content([]string{"app.py", "wsgi.py", "application.py", "app/__init__.py"}, `(?m)^from flask import|^import flask`, WeightConfigFile, "Flask import in entrypoint").
			File("templates", WeightMinorIndicator, "templates/ folder").
			Threshold(0.3).
			Build(),

		NewProfile("Gin").
			DependencyIn(goManifest, manifest.ScopeDependencies, []string{"github.com/gin-gonic/gin"}, WeightDependency, "gin in go.mod").
			Threshold(0.5).
			Build(),

		NewProfile("Echo").
			DependencyIn(goManifest, manifest.ScopeDependencies, []string{"github.com/labstack/echo/v4", "github.com/labstack/echo"}, WeightDependency, "echo in go.mod").
			Threshold(0.5).
			Build(),

		NewProfile("Fiber").
			DependencyIn(goManifest, manifest.ScopeDependencies, []string{"github.com/gofiber/fiber/v2", "github.com/gofiber/fiber/v3"}, WeightDependency, "fiber in go.mod").
			Threshold(0.5).
			Build(),

		NewProfile("Actix Web").
			DependencyIn(cargoManifest, manifest.ScopeDependencies, []string{"actix-web"}, WeightDependency, "actix-web in Cargo.toml").
			Threshold(0.5).
			Build(),

		NewProfile("Axum").
			DependencyIn(cargoManifest, manifest.ScopeDependencies, []string{"axum"}, WeightDependency, "axum in Cargo.toml").
			Threshold(0.5).
			Build(),

		NewProfile("Rails").
			Content([]string{"Gemfile"}, `(?m)^\s*gem\s+['"]rails['"]`, WeightDependency, "rails in Gemfile").
			File("bin/rails", WeightBuildTool, "bin/rails").
			File("config/application.rb", WeightStructure, "config/application.rb").
			Threshold(0.3).
			Build(),
	}
}
