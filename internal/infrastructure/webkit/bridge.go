package webkit

// MessageHandlerName is the WebKit script message handler the bridge posts
// to, reachable in page JS as window.webkit.messageHandlers.socdeck.
const MessageHandlerName = "socdeck"

// bridgeScript is injected into every pane at document-start. It is a dumb
// forwarder: raw scroll and pointer events go up to the host, commands from
// the host are applied verbatim. All debouncing, eligibility and animation
// decisions stay on the Go side.
const bridgeScript = `
(function () {
  'use strict';
  if (window.__socdeck) { return; }

  var state = { index: -1 };

  function post(type, payload) {
    try {
      window.webkit.messageHandlers.` + MessageHandlerName + `.postMessage(JSON.stringify({
        type: type,
        viewIndex: state.index,
        payload: payload || null
      }));
    } catch (e) { /* handler not ready yet */ }
  }

  window.__socdeck = {
    receive: function (msg) {
      if (!msg || !msg.type) { return; }
      switch (msg.type) {
        case 'SET_VIEW_INDEX':
          state.index = msg.payload.index;
          break;
        case 'SCROLL_COMMAND':
          window.scrollTo(0, msg.payload.y);
          break;
        case 'SET_VIEW_OPACITY':
          document.documentElement.style.opacity = String(msg.payload.opacity);
          break;
        case 'GRAYSCALE_MODE_CHANGED':
          document.documentElement.style.filter = msg.payload.enabled ? 'grayscale(1)' : '';
          break;
        default:
          // SCROLL_SYNC_CHANGED, FOCUS_MODE_CHANGED and the control
          // surface broadcasts carry no per-page behavior.
          break;
      }
    }
  };

  window.addEventListener('scroll', function () {
    post('SCROLL_UPDATE', { y: window.scrollY });
  }, { passive: true });

  window.addEventListener('mouseenter', function () {
    post('FOCUS_VIEW', { viewIndex: state.index });
  });
})();
`
