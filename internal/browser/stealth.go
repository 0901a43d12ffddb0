package browser

import (
	"os"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	"catalog-crawler-go/internal/config"
)

// stealthScript papers over the automation tells retail anti-bot vendors
// probe first: navigator.webdriver, the missing window.chrome object, empty
// plugin and language lists, the headless permissions quirk, and the
// SwiftShader WebGL vendor strings. Each patch is independent; one throwing
// must not take the rest down.
const stealthScript = `(() => {
  const patch = (fn) => { try { fn(); } catch (e) {} };

  patch(() => Object.defineProperty(navigator, 'webdriver', { get: () => undefined }));
  patch(() => Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] }));
  patch(() => Object.defineProperty(navigator, 'maxTouchPoints', { get: () => 0 }));
  patch(() => Object.defineProperty(navigator, 'platform', { get: () => 'MacIntel' }));

  patch(() => {
    if (!window.chrome) {
      window.chrome = { runtime: {}, loadTimes: () => ({}), csi: () => ({}) };
    }
  });

  patch(() => {
    const fakePlugin = (name, filename) => ({ name, filename, description: '', length: 1 });
    const plugins = [
      fakePlugin('Chrome PDF Viewer', 'internal-pdf-viewer'),
      fakePlugin('Chromium PDF Viewer', 'internal-pdf-viewer'),
    ];
    Object.defineProperty(navigator, 'plugins', { get: () => plugins });
  });

  patch(() => {
    const query = navigator.permissions.query.bind(navigator.permissions);
    navigator.permissions.query = (desc) =>
      desc && desc.name === 'notifications'
        ? Promise.resolve({ state: Notification.permission })
        : query(desc);
  });

  patch(() => {
    const UNMASKED_VENDOR = 37445, UNMASKED_RENDERER = 37446;
    for (const ctx of [WebGLRenderingContext, WebGL2RenderingContext]) {
      const orig = ctx.prototype.getParameter;
      ctx.prototype.getParameter = function (p) {
        if (p === UNMASKED_VENDOR) return 'Intel Inc.';
        if (p === UNMASKED_RENDERER) return 'Intel Iris OpenGL Engine';
        return orig.call(this, p);
      };
    }
  });
})();`

var (
	stealthOnce   sync.Once
	stealthCached string
)

// resolvedStealthScript prefers an operator-supplied script file
// (STEALTH_SCRIPT_PATH) over the built-in patches, loading it once.
func resolvedStealthScript() string {
	stealthOnce.Do(func() {
		stealthCached = stealthScript
		p := strings.TrimSpace(config.AppConfig.StealthScriptPath)
		if p == "" {
			return
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			stealthCached = s
		}
	})
	return stealthCached
}

func InjectStealthToPage(page playwright.Page) error {
	if page == nil {
		return nil
	}
	return page.AddInitScript(playwright.Script{Content: playwright.String(resolvedStealthScript())})
}

func InjectStealthToContext(ctx playwright.BrowserContext) error {
	if ctx == nil {
		return nil
	}
	return ctx.AddInitScript(playwright.Script{Content: playwright.String(resolvedStealthScript())})
}
